package testutil

import (
	"context"
	"sync"

	"baristabot/internal/chat"
)

// Recorder is an in-memory chat.Transport that keeps everything rendered
type Recorder struct {
	mu       sync.Mutex
	Messages map[int64][]chat.Message
	Lists    map[int64][]chat.List
	Edits    map[int64][]chat.Message
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Messages: make(map[int64][]chat.Message),
		Lists:    make(map[int64][]chat.List),
		Edits:    make(map[int64][]chat.Message),
	}
}

func (r *Recorder) RenderPrompt(_ context.Context, userID int64, msg chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages[userID] = append(r.Messages[userID], msg)
	return nil
}

func (r *Recorder) RenderList(_ context.Context, userID int64, list chat.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lists[userID] = append(r.Lists[userID], list)
	return nil
}

func (r *Recorder) EditOrReplace(_ context.Context, userID int64, _ chat.MessageRef, msg chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Edits[userID] = append(r.Edits[userID], msg)
	return nil
}

// Last returns the most recent prompt sent to userID
func (r *Recorder) Last(userID int64) chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.Messages[userID]
	if len(msgs) == 0 {
		return chat.Message{}
	}
	return msgs[len(msgs)-1]
}

// LastList returns the most recent list sent to userID
func (r *Recorder) LastList(userID int64) (chat.List, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lists := r.Lists[userID]
	if len(lists) == 0 {
		return chat.List{}, false
	}
	return lists[len(lists)-1], true
}

// Count returns how many prompts userID received
func (r *Recorder) Count(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Messages[userID])
}

// Reset forgets everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = make(map[int64][]chat.Message)
	r.Lists = make(map[int64][]chat.List)
	r.Edits = make(map[int64][]chat.Message)
}
