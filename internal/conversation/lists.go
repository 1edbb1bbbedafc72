package conversation

import (
	"sync"
	"time"

	"baristabot/internal/chat"
)

// ListContext is the last list rendered to a user. Owner is the wizard that
// rendered it, or empty for a browse list opened from a menu.
type ListContext struct {
	Name       string
	Owner      WizardKind
	Query      string
	Items      []chat.ListItem
	ShowAction string
	CreatedAt  time.Time
}

// ByPosition returns the item at 1-based position n
func (l *ListContext) ByPosition(n int) (chat.ListItem, bool) {
	if n < 1 || n > len(l.Items) {
		return chat.ListItem{}, false
	}
	return l.Items[n-1], true
}

// ByID returns the item with the given entity ID
func (l *ListContext) ByID(id int64) (chat.ListItem, bool) {
	for _, it := range l.Items {
		if it.ID == id {
			return it, true
		}
	}
	return chat.ListItem{}, false
}

// ListStore keeps the last rendered list per user
type ListStore interface {
	Get(userID int64) (*ListContext, bool)
	Set(userID int64, list ListContext)
	Clear(userID int64)
	ClearOwned(userID int64, owner WizardKind)
}

// MemoryLists is a process-local ListStore
type MemoryLists struct {
	mu    sync.RWMutex
	lists map[int64]*ListContext
}

// NewMemoryLists creates an empty list store
func NewMemoryLists() *MemoryLists {
	return &MemoryLists{lists: make(map[int64]*ListContext)}
}

func (m *MemoryLists) Get(userID int64) (*ListContext, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lists[userID]
	if !ok {
		return nil, false
	}
	c := *l
	c.Items = append([]chat.ListItem(nil), l.Items...)
	return &c, true
}

func (m *MemoryLists) Set(userID int64, list ListContext) {
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	list.Items = append([]chat.ListItem(nil), list.Items...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[userID] = &list
}

func (m *MemoryLists) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, userID)
}

// ClearOwned removes the list only if owner rendered it
func (m *MemoryLists) ClearOwned(userID int64, owner WizardKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lists[userID]; ok && l.Owner == owner {
		delete(m.lists, userID)
	}
}
