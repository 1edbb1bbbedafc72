package conversation

import (
	"sync"
	"testing"

	"baristabot/internal/chat"
	"baristabot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_StartRejectsSecondWizard(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Start(1, "create_level", "program")
	require.NoError(t, err)
	require.NoError(t, store.Update(1, func(s *State) {
		s.Fields.Set("program_id", int64(3))
		s.Step = "name"
	}))

	existing, err := store.Start(1, "register_customer", "name")

	assert.ErrorIs(t, err, domain.ErrWizardActive)
	assert.Equal(t, WizardKind("create_level"), existing.Kind)
	assert.Equal(t, first.SessionID, existing.SessionID)
	assert.Equal(t, "name", existing.Step)
	assert.Equal(t, []string{"program_id"}, existing.Fields.Keys())
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Start(1, "edit_user", "user")
	require.NoError(t, err)

	s, ok := store.Get(1)
	require.True(t, ok)
	s.Fields.Set("leak", true)
	s.Step = "other"

	again, _ := store.Get(1)
	assert.False(t, again.Fields.Has("leak"))
	assert.Equal(t, "user", again.Step)
}

func TestMemoryStore_UpdateKeepsIdentity(t *testing.T) {
	store := NewMemoryStore()
	started, err := store.Start(1, "edit_user", "user")
	require.NoError(t, err)

	require.NoError(t, store.Update(1, func(s *State) {
		s.Kind = "hijack"
		s.Step = "field"
	}))

	s, _ := store.Get(1)
	assert.Equal(t, WizardKind("edit_user"), s.Kind)
	assert.Equal(t, started.SessionID, s.SessionID)
	assert.Equal(t, "field", s.Step)
}

func TestMemoryStore_UpdateWithoutState(t *testing.T) {
	store := NewMemoryStore()
	assert.ErrorIs(t, store.Update(5, func(*State) {}), ErrNoState)
}

func TestMemoryStore_ClearAllowsNewStart(t *testing.T) {
	store := NewMemoryStore()
	_, _ = store.Start(1, "a", "s1")
	store.Clear(1)

	_, ok := store.Get(1)
	assert.False(t, ok)

	s, err := store.Start(1, "b", "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Fields.Len())
}

func TestMemoryStore_ConcurrentStartOneWinner(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Start(1, "a", "s"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.Active())
}

func TestFields_OrderAndGetters(t *testing.T) {
	f := NewFields()
	f.Set("name", "Bronze")
	f.Set("min", decimal.NewFromInt(1000))
	f.Set("program_id", int64(2))
	f.Set("name", "Silver")

	assert.Equal(t, []string{"name", "min", "program_id"}, f.Keys())
	assert.Equal(t, "Silver", f.String("name"))
	assert.True(t, decimal.NewFromInt(1000).Equal(f.Decimal("min")))
	assert.Equal(t, int64(2), f.Int64("program_id"))
	assert.Equal(t, "", f.String("missing"))
	assert.True(t, f.Has("min"))
	assert.False(t, f.Has("percent"))
}

func TestMemoryLists_ClearOwned(t *testing.T) {
	lists := NewMemoryLists()
	lists.Set(1, ListContext{Name: "programs", Owner: "create_level", Items: []chat.ListItem{{ID: 4, Label: "Base"}}})

	lists.ClearOwned(1, "other")
	_, ok := lists.Get(1)
	assert.True(t, ok)

	lists.ClearOwned(1, "create_level")
	_, ok = lists.Get(1)
	assert.False(t, ok)
}

func TestListContext_Lookup(t *testing.T) {
	l := ListContext{Items: []chat.ListItem{{ID: 10, Label: "a"}, {ID: 20, Label: "b"}}}

	item, ok := l.ByPosition(2)
	assert.True(t, ok)
	assert.Equal(t, int64(20), item.ID)

	_, ok = l.ByPosition(0)
	assert.False(t, ok)
	_, ok = l.ByPosition(3)
	assert.False(t, ok)

	item, ok = l.ByID(10)
	assert.True(t, ok)
	assert.Equal(t, "a", item.Label)
}
