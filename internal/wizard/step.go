package wizard

import (
	"context"
	"errors"

	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/conversation"
)

// Kind names a wizard
type Kind = conversation.WizardKind

// End is returned by a branch rule to finish the sequence
const End = "\x00end"

// Inline actions the engine understands at every step
const (
	ActionCancel  = "cancel"
	ActionYes     = "confirm_yes"
	ActionNo      = "confirm_no"
	ActionPick    = "pick"
	ActionSkip    = "skip"
	confirmField  = "confirmed"
	retryPrefix   = "⚠️ "
	defaultFailed = "❌ Не удалось выполнить операцию. Попробуйте позже."
)

// Env is what a prompt builder sees
type Env struct {
	UserID int64
	Fields *conversation.Fields
}

// PromptList is a selectable list rendered as part of a prompt
type PromptList struct {
	Title  string
	Items  []chat.ListItem
	Footer string
}

// Prompt is the content rendered when a step becomes current
type Prompt struct {
	Text     string
	Keyboard [][]string
	Inline   [][]chat.Button
	List     *PromptList
}

// Input is what a validator sees
type Input struct {
	UserID int64
	Text   string
	Token  *callback.Token
	Skip   bool
	Fields *conversation.Fields
	// Choices is the list rendered by this step, if any
	Choices *conversation.ListContext
}

// Action returns the inline action, if the input came from a button
func (in Input) Action() string {
	if in.Token == nil {
		return ""
	}
	return in.Token.Action
}

// Pair is one collected value
type Pair struct {
	Key   string
	Value any
}

// Values lets a validator store several fields at once, in order
type Values []Pair

// Step is one prompt/validate/advance unit
type Step struct {
	Name     string
	Field    string
	Prompt   func(ctx context.Context, env Env) (Prompt, error)
	Validate func(ctx context.Context, in Input) (any, error)
	// Next picks the following step by name; empty means the next one in
	// sequence, End finishes the wizard.
	Next func(value any, fields *conversation.Fields) string
	// Skip jumps over the step when its value is already known
	Skip func(fields *conversation.Fields) bool
	// Confirm marks the terminal yes/no step
	Confirm bool
}

// Result is what a successful commit reports back
type Result struct {
	Message string
	// Inline buttons attached to the completion message
	Inline [][]chat.Button
}

// Definition declares a wizard
type Definition struct {
	Kind   Kind
	Steps  []Step
	Init   func(ctx context.Context, userID int64, fields *conversation.Fields) error
	Commit func(ctx context.Context, userID int64, fields *conversation.Fields) (Result, error)
	// FailureMessage maps a commit error to a specific message; false falls
	// back to the generic failure text.
	FailureMessage func(err error) (string, bool)
	CancelText     string
	DeclineText    string
	// ReturnMenu names the menu shown after a terminal transition
	ReturnMenu string
}

func (d *Definition) stepIndex(name string) int {
	for i, s := range d.Steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (d *Definition) validate() error {
	if d.Kind == "" {
		return errors.New("wizard kind is empty")
	}
	if len(d.Steps) == 0 {
		return errors.New("wizard " + string(d.Kind) + " has no steps")
	}
	if d.Commit == nil {
		return errors.New("wizard " + string(d.Kind) + " has no commit")
	}

	seen := make(map[string]bool, len(d.Steps))
	for i, s := range d.Steps {
		if s.Name == "" || s.Name == End {
			return errors.New("wizard " + string(d.Kind) + " has an unnamed step")
		}
		if seen[s.Name] {
			return errors.New("wizard " + string(d.Kind) + " repeats step " + s.Name)
		}
		seen[s.Name] = true
		if s.Prompt == nil {
			return errors.New("step " + s.Name + " has no prompt")
		}
		if s.Confirm {
			if i != len(d.Steps)-1 {
				return errors.New("confirm step " + s.Name + " must be last")
			}
			continue
		}
		if s.Validate == nil || s.Field == "" {
			return errors.New("step " + s.Name + " needs a validator and a field")
		}
	}
	return nil
}
