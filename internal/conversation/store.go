package conversation

import (
	"errors"
	"sync"
	"time"

	"baristabot/internal/domain"

	"github.com/google/uuid"
)

// WizardKind names a wizard
type WizardKind string

// ErrNoState is returned by Update when the user has no active wizard
var ErrNoState = errors.New("no active conversation")

// State is the per-user wizard record
type State struct {
	SessionID uuid.UUID
	Kind      WizardKind
	Step      string
	Fields    *Fields
	StartedAt time.Time
	Retries   int
}

func (s *State) clone() *State {
	c := *s
	c.Fields = s.Fields.Clone()
	return &c
}

// Store keeps at most one wizard state per user
type Store interface {
	Get(userID int64) (*State, bool)
	Start(userID int64, kind WizardKind, step string) (*State, error)
	Update(userID int64, mutate func(*State)) error
	Clear(userID int64)
}

// MemoryStore is a process-local Store. State is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]*State
	now    func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[int64]*State),
		now:    time.Now,
	}
}

// Get returns a copy of the user's state
func (m *MemoryStore) Get(userID int64) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[userID]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// Start creates a fresh state. If one is active it is returned unchanged
// together with domain.ErrWizardActive.
func (m *MemoryStore) Start(userID int64, kind WizardKind, step string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.states[userID]; ok {
		return existing.clone(), domain.ErrWizardActive
	}

	s := &State{
		SessionID: uuid.New(),
		Kind:      kind,
		Step:      step,
		Fields:    NewFields(),
		StartedAt: m.now(),
	}
	m.states[userID] = s
	return s.clone(), nil
}

// Update applies mutate to a working copy and stores it
func (m *MemoryStore) Update(userID int64, mutate func(*State)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[userID]
	if !ok {
		return ErrNoState
	}

	next := s.clone()
	mutate(next)
	next.SessionID = s.SessionID
	next.Kind = s.Kind
	m.states[userID] = next
	return nil
}

// Clear removes the user's state
func (m *MemoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

// Active returns how many users currently have a wizard open
func (m *MemoryStore) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
