// Package telegram renders transport-neutral chat content through telebot.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"baristabot/internal/callback"
	"baristabot/internal/chat"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxButtonText keeps list buttons readable on phones
const maxButtonText = 40

// API is the part of *tele.Bot the sender uses
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Sender implements chat.Transport, chat.Notifier and chat cleanup on top of
// the Bot API. Private chats are assumed, so a user ID is also its chat ID.
type Sender struct {
	api     API
	history *History
	logger  *zap.Logger
	// pause between deletions keeps purges under the flood limit
	pause time.Duration
}

// NewSender creates a sender. history may be shared with the update handler
// so incoming messages can be purged too.
func NewSender(api API, history *History, logger *zap.Logger) *Sender {
	return &Sender{api: api, history: history, logger: logger, pause: 300 * time.Millisecond}
}

func (s *Sender) send(chatID int64, text string, markup *tele.ReplyMarkup) error {
	opts := []interface{}{}
	if markup != nil {
		opts = append(opts, markup)
	}
	msg, err := s.api.Send(tele.ChatID(chatID), text, opts...)
	if err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	s.history.Track(chatID, msg.ID, true)
	return nil
}

func (s *Sender) RenderPrompt(_ context.Context, userID int64, msg chat.Message) error {
	return s.send(userID, msg.Text, markupFor(msg))
}

func (s *Sender) RenderList(_ context.Context, userID int64, list chat.List) error {
	var b strings.Builder
	b.WriteString(list.Title)
	for i, it := range list.Items {
		fmt.Fprintf(&b, "\n%d. %s (ID: %d)", i+1, it.Label, it.ID)
	}

	var markup *tele.ReplyMarkup
	if list.SelectAction != "" && len(list.Items) > 0 {
		markup = &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(list.Items))
		for _, it := range list.Items {
			data := callback.New(list.SelectAction, it.ID, list.SelectArg).Data()
			rows = append(rows, markup.Row(dataButton(markup, truncate(it.Label), list.SelectAction, data)))
		}
		markup.Inline(rows...)
	}

	if len(list.Keyboard) == 0 {
		if list.Footer != "" {
			b.WriteString("\n\n" + list.Footer)
		}
		return s.send(userID, b.String(), markup)
	}

	if err := s.send(userID, b.String(), markup); err != nil {
		return err
	}
	footer := list.Footer
	if footer == "" {
		footer = "Выберите действие:"
	}
	return s.send(userID, footer, replyMarkup(list.Keyboard))
}

// EditOrReplace edits ref in place. A message that is already identical is
// left alone; any other edit failure falls back to a new message.
func (s *Sender) EditOrReplace(_ context.Context, userID int64, ref chat.MessageRef, msg chat.Message) error {
	stored := tele.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}

	opts := []interface{}{}
	if len(msg.Inline) > 0 {
		opts = append(opts, inlineMarkup(msg.Inline))
	}
	_, err := s.api.Edit(stored, msg.Text, opts...)
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		s.logger.Debug("Message already up to date",
			zap.Int64("user_id", userID),
			zap.Int("message_id", ref.MessageID),
		)
		return nil
	}

	s.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.Int("message_id", ref.MessageID),
	)
	return s.RenderPrompt(context.Background(), userID, msg)
}

// Notify sends an unsolicited plain message
func (s *Sender) Notify(_ context.Context, chatID int64, text string) error {
	return s.send(chatID, text, nil)
}

// Purge deletes the most recent tracked messages of chatID, newest first.
// Messages Telegram no longer knows about are skipped.
func (s *Sender) Purge(ctx context.Context, chatID int64, botOnly bool, limit int) (int, error) {
	deleted := 0
	for _, m := range s.history.Recent(chatID, botOnly) {
		if limit > 0 && deleted >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		err := s.api.Delete(tele.StoredMessage{MessageID: strconv.Itoa(m.ID), ChatID: chatID})
		s.history.Forget(chatID, m.ID)
		switch {
		case err == nil:
			deleted++
		case isGone(err):
			s.logger.Debug("Message already gone", zap.Int64("chat_id", chatID), zap.Int("message_id", m.ID))
			continue
		default:
			return deleted, fmt.Errorf("delete message %d: %w", m.ID, err)
		}

		if s.pause > 0 {
			select {
			case <-ctx.Done():
				return deleted, ctx.Err()
			case <-time.After(s.pause):
			}
		}
	}
	return deleted, nil
}

func isGone(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "message to delete not found") || strings.Contains(msg, "message can't be deleted")
}

func markupFor(msg chat.Message) *tele.ReplyMarkup {
	switch {
	case len(msg.Inline) > 0:
		return inlineMarkup(msg.Inline)
	case len(msg.Keyboard) > 0:
		return replyMarkup(msg.Keyboard)
	case msg.RemoveKeyboard:
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	default:
		return nil
	}
}

func replyMarkup(keyboard [][]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(keyboard))
	for _, labels := range keyboard {
		btns := make([]tele.Btn, 0, len(labels))
		for _, l := range labels {
			btns = append(btns, markup.Text(l))
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Reply(rows...)
	return markup
}

func inlineMarkup(buttons [][]chat.Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(buttons))
	for _, row := range buttons {
		btns := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			btns = append(btns, dataButton(markup, b.Text, b.Token.Action, b.Token.Data()))
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Inline(rows...)
	return markup
}

func dataButton(markup *tele.ReplyMarkup, text, unique, data string) tele.Btn {
	if data == "" {
		return markup.Data(text, unique)
	}
	return markup.Data(text, unique, data)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxButtonText {
		return s
	}
	r := []rune(s)
	return string(r[:maxButtonText-1]) + "…"
}
