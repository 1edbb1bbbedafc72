package handler

import (
	"strings"
	"unicode"

	"baristabot/internal/callback"
	"baristabot/internal/chat"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// decodeCallback restores the token of an inline button. telebot splits
// unique and payload only for registered uniques; everything else arrives as
// raw "\funique|payload" data.
func decodeCallback(unique, data string) (callback.Token, error) {
	data = cleanCallbackData(data)
	if unique == "" {
		unique, data, _ = strings.Cut(data, "|")
	}
	return callback.Decode(unique, data)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}
	if c.Sender() == nil {
		h.logger.Warn("handleCallback: callback without sender", zap.String("id", cb.ID))
		return c.Respond()
	}

	token, err := decodeCallback(cb.Unique, cb.Data)
	if err != nil {
		h.logger.Warn("Unhandled callback",
			zap.String("data", cb.Data),
			zap.String("unique", cb.Unique),
			zap.Error(err),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Кнопка устарела"})
	}

	// Always acknowledge before the dispatcher sends anything
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}

	in := chat.Input{
		UserID: c.Sender().ID,
		ChatID: c.Chat().ID,
		Token:  &token,
	}
	if cb.Message != nil {
		in.Ref = &chat.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.ID}
	}

	h.logger.Debug("Processing callback",
		zap.String("token", token.String()),
		zap.String("id", cb.ID),
		zap.Int64("user_id", in.UserID),
	)
	return h.dispatch(c, in)
}
