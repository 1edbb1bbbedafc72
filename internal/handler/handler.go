package handler

import (
	"context"
	"time"

	"baristabot/internal/chat"
	"baristabot/internal/menu"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// updateTimeout bounds the handling of one update
const updateTimeout = 30 * time.Second

const failureText = "Произошла ошибка. Попробуйте позже."

// Dispatcher handles one normalized input
type Dispatcher interface {
	OnInput(ctx context.Context, in chat.Input) error
}

// Tracker remembers message IDs so chat cleanup can reach them
type Tracker interface {
	Track(chatID int64, messageID int, fromBot bool)
}

// Handler converts telebot updates into dispatcher inputs
type Handler struct {
	bot        *tele.Bot
	dispatcher Dispatcher
	tracker    Tracker
	logger     *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, dispatcher Dispatcher, tracker Tracker, logger *zap.Logger) *Handler {
	return &Handler{
		bot:        bot,
		dispatcher: dispatcher,
		tracker:    tracker,
		logger:     logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle(menu.StartCommand, h.handleText)
	h.bot.Handle(menu.CancelCommand, h.handleText)
	h.bot.Handle(menu.SkipCommand, h.handleText)

	// Text messages and reply keyboard labels
	h.bot.Handle(tele.OnText, h.handleText)

	// Every inline button
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

func (h *Handler) handleText(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Sender() == nil {
		return nil
	}
	h.tracker.Track(c.Chat().ID, msg.ID, false)

	return h.dispatch(c, chat.Input{
		UserID: c.Sender().ID,
		ChatID: c.Chat().ID,
		Text:   c.Text(),
	})
}

func (h *Handler) dispatch(c tele.Context, in chat.Input) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	if err := h.dispatcher.OnInput(ctx, in); err != nil {
		h.logger.Error("Failed to handle input",
			zap.Int64("user_id", in.UserID),
			zap.String("text", in.Text),
			zap.String("action", in.Action()),
			zap.Error(err),
		)
		return c.Send(failureText)
	}
	return nil
}
