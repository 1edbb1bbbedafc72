package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"baristabot/internal/access"
	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/testutil"
	"baristabot/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin   int64 = 1
	visitor int64 = 2
)

type roles map[int64]domain.Role

func (r roles) RoleOf(_ context.Context, userID int64) domain.Role {
	if role, ok := r[userID]; ok {
		return role
	}
	return domain.RoleGuest
}

type fakeWizards struct {
	active  map[int64]bool
	handled []chat.Input
	aborted []int64
}

func (w *fakeWizards) Active(userID int64) bool { return w.active[userID] }

func (w *fakeWizards) Abort(userID int64) bool {
	w.aborted = append(w.aborted, userID)
	was := w.active[userID]
	delete(w.active, userID)
	return was
}

func (w *fakeWizards) Handle(_ context.Context, in chat.Input) (wizard.Outcome, error) {
	w.handled = append(w.handled, in)
	return wizard.Advanced, nil
}

type fixture struct {
	ctrl      *Controller
	wizards   *fakeWizards
	lists     *conversation.MemoryLists
	transport *testutil.Recorder
	calls     []Request
	found     []chat.ListItem
	queries   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		wizards:   &fakeWizards{active: make(map[int64]bool)},
		lists:     conversation.NewMemoryLists(),
		transport: testutil.NewRecorder(),
	}
	resolver := roles{admin: domain.RoleAdmin, visitor: domain.RoleVisitor}
	router, err := access.NewRouter(resolver,
		access.Route{ControlID: menu.StartCommand, Action: "start", Requirement: access.None()},
		access.Route{ControlID: menu.Administration, Action: "menu.admin", Requirement: access.OnlyRole(domain.RoleAdmin)},
		access.Route{ControlID: menu.CustomersList, Action: "customers.list", Requirement: access.NeedCapability(domain.CapManageCustomers)},
		access.Route{ControlID: menu.ActCustomerShow, Action: "customers.show", Requirement: access.NeedCapability(domain.CapManageCustomers)},
		access.Route{ControlID: menu.BackToMain, Action: "menu.main", Requirement: access.None()},
		access.Route{ControlID: menu.Profile, Action: "profile", Requirement: access.None()},
	)
	require.NoError(t, err)

	record := func(_ context.Context, req Request) error {
		f.calls = append(f.calls, req)
		return nil
	}
	f.ctrl = NewController(Options{
		Wizards: f.wizards,
		Lists:   f.lists,
		Router:  router,
		Actions: Registry{
			"start":          record,
			"menu.admin":     record,
			"customers.list": record,
			"customers.show": record,
			"menu.main":      record,
		},
		Finders: map[string]Finder{
			menu.CustomerList: func(_ context.Context, _ int64, query string) ([]chat.ListItem, error) {
				f.queries = append(f.queries, query)
				return f.found, nil
			},
		},
		Transport: f.transport,
		Menus:     menu.NewProvider(router, resolver),
		Logger:    testutil.NewTestLogger(),
	})
	return f
}

func (f *fixture) text(t *testing.T, userID int64, text string) {
	t.Helper()
	require.NoError(t, f.ctrl.OnInput(t.Context(), chat.Input{UserID: userID, ChatID: userID, Text: text}))
}

func (f *fixture) openCustomers(userID int64) {
	f.lists.Set(userID, conversation.ListContext{
		Name: menu.CustomerList,
		Items: []chat.ListItem{
			{ID: 5, Label: "Анна Петрова"},
			{ID: 6, Label: "Анна Иванова"},
			{ID: 7, Label: "Борис"},
		},
		ShowAction: menu.ActCustomerShow,
	})
}

func TestController_AllowedRunsAction(t *testing.T) {
	f := newFixture(t)
	f.text(t, admin, menu.Administration)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "menu.admin", f.calls[0].Action)
	assert.Equal(t, domain.RoleAdmin, f.calls[0].Role)
}

func TestController_DeniedShowsMainMenu(t *testing.T) {
	f := newFixture(t)
	f.text(t, visitor, menu.Administration)

	assert.Empty(t, f.calls)
	last := f.transport.Last(visitor)
	assert.Contains(t, last.Text, "⛔ У вас нет доступа к этому разделу")
	assert.Contains(t, last.Text, "🏠 Главное меню")
	for _, row := range last.Keyboard {
		assert.NotContains(t, row, menu.Administration)
	}
}

func TestController_UnknownShowsMainMenu(t *testing.T) {
	f := newFixture(t)
	f.lists.Set(admin, conversation.ListContext{Name: "programs", Owner: "create_level"})

	f.text(t, admin, "что-то непонятное")

	assert.Empty(t, f.calls)
	assert.Contains(t, f.transport.Last(admin).Text, "Выберите действие:")
	_, ok := f.lists.Get(admin)
	assert.False(t, ok)
}

func TestController_RouteWithoutActionShowsHome(t *testing.T) {
	f := newFixture(t)
	f.text(t, admin, menu.Profile)

	assert.Empty(t, f.calls)
	assert.Contains(t, f.transport.Last(admin).Text, "🏠 Главное меню")
}

func TestController_ActiveWizardReceivesMenuLabels(t *testing.T) {
	f := newFixture(t)
	f.wizards.active[admin] = true

	f.text(t, admin, menu.Administration)

	assert.Empty(t, f.calls, "menu label must not reach the router during a wizard")
	require.Len(t, f.wizards.handled, 1)
	assert.Equal(t, menu.Administration, f.wizards.handled[0].Text)
}

func TestController_StartResetsWizardAndLists(t *testing.T) {
	f := newFixture(t)
	f.wizards.active[admin] = true
	f.openCustomers(admin)

	f.text(t, admin, menu.StartCommand)

	assert.Equal(t, []int64{admin}, f.wizards.aborted)
	assert.Empty(t, f.wizards.handled)
	_, ok := f.lists.Get(admin)
	assert.False(t, ok)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "start", f.calls[0].Action)
}

func TestController_ListSelection(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		found     []chat.ListItem
		wantShow  int64
		wantList  int
		wantQuery bool
	}{
		{name: "by id", input: "7", wantShow: 7},
		{name: "single substring match", input: "петрова", wantShow: 5},
		{name: "several substring matches", input: "анна", wantList: 2},
		{name: "finder single match", input: "Виктор", found: []chat.ListItem{{ID: 40, Label: "Виктор"}}, wantShow: 40, wantQuery: true},
		{name: "finder several matches", input: "Вик", found: []chat.ListItem{{ID: 40, Label: "Виктор"}, {ID: 41, Label: "Вика"}}, wantList: 2, wantQuery: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.found = tt.found
			f.openCustomers(admin)

			f.text(t, admin, tt.input)

			if tt.wantQuery {
				assert.Equal(t, []string{tt.input}, f.queries)
			} else {
				assert.Empty(t, f.queries)
			}

			if tt.wantShow != 0 {
				require.Len(t, f.calls, 1)
				assert.Equal(t, "customers.show", f.calls[0].Action)
				assert.Equal(t, tt.wantShow, f.calls[0].ID())
				assert.True(t, f.calls[0].Input.IsCallback())
				return
			}

			assert.Empty(t, f.calls)
			list, ok := f.transport.LastList(admin)
			require.True(t, ok)
			assert.Len(t, list.Items, tt.wantList)
			assert.Equal(t, menu.ActCustomerShow, list.SelectAction)

			stored, ok := f.lists.Get(admin)
			require.True(t, ok)
			assert.Equal(t, tt.input, stored.Query)
			assert.Len(t, stored.Items, tt.wantList)
		})
	}
}

func TestController_ListNoMatch(t *testing.T) {
	f := newFixture(t)
	f.openCustomers(admin)

	f.text(t, admin, "Зинаида")

	assert.Empty(t, f.calls)
	assert.Equal(t, "🔍 Ничего не найдено по запросу «Зинаида»", f.transport.Last(admin).Text)
	_, ok := f.lists.Get(admin)
	assert.True(t, ok, "list stays open after a miss")
}

func TestController_FinderError(t *testing.T) {
	f := newFixture(t)
	f.openCustomers(admin)
	boom := errors.New("db down")
	f.ctrl.finders[menu.CustomerList] = func(context.Context, int64, string) ([]chat.ListItem, error) {
		return nil, boom
	}

	err := f.ctrl.OnInput(t.Context(), chat.Input{UserID: admin, ChatID: admin, Text: "Зинаида"})
	assert.ErrorIs(t, err, boom)
}

func TestController_RegisteredLabelBypassesList(t *testing.T) {
	f := newFixture(t)
	f.openCustomers(admin)

	f.text(t, admin, menu.CustomersList)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "customers.list", f.calls[0].Action)
	_, ok := f.lists.Get(admin)
	assert.False(t, ok, "text routed to an action closes the browse list")
}

func TestController_WizardOwnedListIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.lists.Set(admin, conversation.ListContext{
		Name:  "programs",
		Owner: "create_level",
		Items: []chat.ListItem{{ID: 7, Label: "Борис"}},
	})

	f.text(t, admin, "7")

	assert.Empty(t, f.calls)
	assert.Empty(t, f.transport.Lists[admin])
	assert.Contains(t, f.transport.Last(admin).Text, "Выберите действие:")
}

func TestController_CallbackKeepsList(t *testing.T) {
	f := newFixture(t)
	f.openCustomers(admin)
	token := callback.New(menu.ActCustomerShow, 6, "")

	require.NoError(t, f.ctrl.OnInput(t.Context(), chat.Input{UserID: admin, ChatID: admin, Token: &token}))

	require.Len(t, f.calls, 1)
	assert.Equal(t, int64(6), f.calls[0].ID())
	_, ok := f.lists.Get(admin)
	assert.True(t, ok)
}

func TestController_CallbackDeniedForVisitor(t *testing.T) {
	f := newFixture(t)
	token := callback.New(menu.ActCustomerShow, 6, "")

	require.NoError(t, f.ctrl.OnInput(t.Context(), chat.Input{UserID: visitor, ChatID: visitor, Token: &token}))

	assert.Empty(t, f.calls)
	assert.Contains(t, f.transport.Last(visitor).Text, "⛔")
}

func TestController_UserLockIsEvictedAfterInput(t *testing.T) {
	f := newFixture(t)

	f.text(t, admin, menu.Administration)
	f.text(t, visitor, menu.Profile)

	assert.Equal(t, 0, f.ctrl.trackedLocks())
}

func TestController_UserLockSerializes(t *testing.T) {
	f := newFixture(t)

	release := f.ctrl.acquire(admin)
	acquired := make(chan func())
	go func() { acquired <- f.ctrl.acquire(admin) }()

	select {
	case <-acquired:
		t.Fatal("second input of the same user must wait")
	case <-time.After(50 * time.Millisecond):
	}

	other := f.ctrl.acquire(visitor)
	other()

	release()
	var second func()
	select {
	case second = <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
	assert.Equal(t, 1, f.ctrl.trackedLocks())

	second()
	assert.Equal(t, 0, f.ctrl.trackedLocks())
}
