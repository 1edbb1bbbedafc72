package chat

import (
	"context"

	"baristabot/internal/callback"
)

// Button is an inline keyboard button carrying a structured token
type Button struct {
	Text  string
	Token callback.Token
}

// Message is transport-neutral content: text plus either a reply keyboard of
// labels or inline buttons. Inline takes precedence when both are set.
type Message struct {
	Text           string
	Keyboard       [][]string
	Inline         [][]Button
	RemoveKeyboard bool
}

// MessageRef points at a previously sent message
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// ListItem is one selectable entity in a rendered list
type ListItem struct {
	ID    int64
	Label string
}

// List is a numbered list of entities. Each item gets an inline button whose
// token is SelectAction with the item ID and SelectArg.
type List struct {
	Title        string
	Items        []ListItem
	SelectAction string
	SelectArg    string
	Footer       string
	Keyboard     [][]string
}

// Input is one inbound event: free text, a reply-keyboard label, or an inline
// callback token.
type Input struct {
	UserID int64
	ChatID int64
	Text   string
	Token  *callback.Token
	Ref    *MessageRef
}

// IsCallback reports whether the input came from an inline button
func (in Input) IsCallback() bool {
	return in.Token != nil
}

// Action returns the callback action or an empty string
func (in Input) Action() string {
	if in.Token == nil {
		return ""
	}
	return in.Token.Action
}

// Transport renders content to a user
type Transport interface {
	RenderPrompt(ctx context.Context, userID int64, msg Message) error
	RenderList(ctx context.Context, userID int64, list List) error
	EditOrReplace(ctx context.Context, userID int64, ref MessageRef, msg Message) error
}

// Notifier delivers unsolicited messages, e.g. reminders
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
