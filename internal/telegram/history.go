package telegram

import "sync"

// DefaultHistorySize is how many message IDs are remembered per chat
const DefaultHistorySize = 200

// TrackedMessage is a message the bot may later delete
type TrackedMessage struct {
	ID      int
	FromBot bool
}

// History remembers the latest message IDs per chat in a bounded ring.
// The Bot API cannot list chat history, so purges only reach tracked messages.
type History struct {
	mu    sync.Mutex
	size  int
	chats map[int64][]TrackedMessage
}

// NewHistory creates a history keeping at most size messages per chat
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, chats: make(map[int64][]TrackedMessage)}
}

// Track records a message
func (h *History) Track(chatID int64, messageID int, fromBot bool) {
	if messageID == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := append(h.chats[chatID], TrackedMessage{ID: messageID, FromBot: fromBot})
	if len(msgs) > h.size {
		msgs = msgs[len(msgs)-h.size:]
	}
	h.chats[chatID] = msgs
}

// Recent returns tracked messages newest first
func (h *History) Recent(chatID int64, botOnly bool) []TrackedMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.chats[chatID]
	out := make([]TrackedMessage, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		if botOnly && !msgs[i].FromBot {
			continue
		}
		out = append(out, msgs[i])
	}
	return out
}

// Forget drops one message
func (h *History) Forget(chatID int64, messageID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := h.chats[chatID]
	for i, m := range msgs {
		if m.ID == messageID {
			h.chats[chatID] = append(msgs[:i], msgs[i+1:]...)
			return
		}
	}
}
