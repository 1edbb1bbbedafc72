package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/testutil"
	"baristabot/internal/wizard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const operator int64 = 1

type staticMenus struct{}

func (staticMenus) Keyboard(context.Context, int64, string) [][]string {
	return [][]string{{menu.BackToMain}}
}

type fixture struct {
	mocks     *testutil.Mocks
	scheduler *testutil.MockScheduler
	store     *conversation.MemoryStore
	lists     *conversation.MemoryLists
	transport *testutil.Recorder
	engine    *wizard.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mocks := testutil.NewMocks()
	tx := &testutil.TxRunner{Mocks: mocks}
	logger := testutil.NewTestLogger()
	f := &fixture{
		mocks:     mocks,
		scheduler: new(testutil.MockScheduler),
		store:     conversation.NewMemoryStore(),
		lists:     conversation.NewMemoryLists(),
		transport: testutil.NewRecorder(),
	}

	deps := Deps{
		Roles:     service.NewRoleService(mocks.Users, tx, logger),
		Catalog:   service.NewCatalogService(mocks.Products, logger),
		Customers: service.NewCustomerService(mocks.Customers, tx, logger),
		Purchases: service.NewPurchaseService(mocks.Customers, mocks.Bonuses, tx, logger),
		Bonuses:   service.NewBonusService(mocks.Bonuses, logger),
		Reports:   service.NewReportService(mocks.Reports, tx, logger),
		Reminders: service.NewReminderService(mocks.Reminders, f.scheduler, new(testutil.MockNotifier), logger),
		Inventory: service.NewInventoryService(mocks.Inventory, tx, logger),
		Lists:     f.lists,
		Now:       func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) },
	}
	f.engine = wizard.NewEngine(f.store, f.lists, f.transport, staticMenus{}, menu.WizardLabels(), logger)
	require.NoError(t, f.engine.Register(Definitions(deps)...))
	return f
}

func (f *fixture) send(t *testing.T, text string) wizard.Outcome {
	t.Helper()
	out, err := f.engine.Handle(t.Context(), chat.Input{UserID: operator, ChatID: operator, Text: text})
	require.NoError(t, err)
	return out
}

func (f *fixture) step(t *testing.T) string {
	t.Helper()
	state, ok := f.store.Get(operator)
	require.True(t, ok, "wizard should be active")
	return state.Step
}

func TestDefinitions_KindsAreUnique(t *testing.T) {
	seen := make(map[wizard.Kind]bool)
	for _, def := range Definitions(Deps{}) {
		assert.False(t, seen[def.Kind], "duplicate kind %s", def.Kind)
		seen[def.Kind] = true
		assert.NotEmpty(t, def.ReturnMenu, "kind %s", def.Kind)
	}
	assert.Len(t, seen, 21)
}

func (f *fixture) expectProgramList() {
	f.mocks.Bonuses.On("Programs", mock.Anything).Return([]domain.BonusProgram{
		{ID: 1, Name: "Базовая", BasePercent: decimal.NewFromInt(3), IsActive: true},
	}, nil)
}

func TestCreateBonusLevel_Commits(t *testing.T) {
	f := newFixture(t)
	f.expectProgramList()
	f.mocks.Bonuses.On("Program", mock.Anything, int64(1)).Return(&domain.BonusProgram{ID: 1, IsActive: true}, nil)
	f.mocks.Bonuses.On("CreateLevel", mock.Anything, mock.MatchedBy(func(l domain.BonusLevel) bool {
		return l.ProgramID == 1 && l.Name == "Bronze" &&
			l.MinPurchases.Equal(decimal.NewFromInt(1000)) &&
			l.Percent.Equal(decimal.NewFromInt(5)) &&
			l.Description == ""
	})).Return(int64(9), nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, CreateBonusLevel))
	list, ok := f.transport.LastList(operator)
	require.True(t, ok)
	require.Len(t, list.Items, 1)

	assert.Equal(t, wizard.Advanced, f.send(t, "1"))
	assert.Equal(t, wizard.Advanced, f.send(t, "Bronze"))
	assert.Equal(t, wizard.Advanced, f.send(t, "1000"))
	assert.Equal(t, wizard.Advanced, f.send(t, "5"))
	assert.Equal(t, wizard.Advanced, f.send(t, menu.Skip))
	assert.Equal(t, wizard.Committed, f.send(t, menu.Yes))

	assert.False(t, f.engine.Active(operator))
	assert.Contains(t, f.transport.Last(operator).Text, "ID: 9")
	f.mocks.AssertExpectations(t)
}

func TestCreateBonusLevel_PercentOutOfRangeRetries(t *testing.T) {
	f := newFixture(t)
	f.expectProgramList()

	require.NoError(t, f.engine.Start(t.Context(), operator, CreateBonusLevel))
	f.send(t, "1")
	f.send(t, "Bronze")
	f.send(t, "1000")

	assert.Equal(t, wizard.Retried, f.send(t, "150"))
	assert.Equal(t, "percent", f.step(t))

	state, _ := f.store.Get(operator)
	assert.False(t, state.Fields.Has(fieldPercent))
	assert.True(t, state.Fields.Has(fieldMinPurchases))
	f.mocks.Bonuses.AssertNotCalled(t, "CreateLevel", mock.Anything, mock.Anything)
}

func TestCreateBonusLevel_CancelAtEveryStep(t *testing.T) {
	inputs := []string{"1", "Bronze", "1000", "5", menu.Skip}

	for n := 0; n <= len(inputs); n++ {
		f := newFixture(t)
		f.expectProgramList()
		require.NoError(t, f.engine.Start(t.Context(), operator, CreateBonusLevel))
		for _, in := range inputs[:n] {
			f.send(t, in)
		}

		assert.Equal(t, wizard.Cancelled, f.send(t, menu.Cancel), "after %d inputs", n)
		assert.False(t, f.engine.Active(operator))
		f.mocks.Bonuses.AssertNotCalled(t, "CreateLevel", mock.Anything, mock.Anything)
	}
}

func TestRegisterCustomer_MenuLabelAtPhoneStepRetries(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Start(t.Context(), operator, RegisterCustomer))
	f.send(t, "Анна")
	require.Equal(t, "phone", f.step(t))

	assert.Equal(t, wizard.Retried, f.send(t, menu.CustomersList))
	assert.Equal(t, "phone", f.step(t))
	assert.Contains(t, f.transport.Last(operator).Text, "Неверный формат телефона")
	f.mocks.Customers.AssertNotCalled(t, "PhoneExists", mock.Anything, mock.Anything)
}

func TestRequiredTextRejectsSkip(t *testing.T) {
	tests := []struct {
		name  string
		kind  wizard.Kind
		step  string
		setup func(f *fixture)
	}{
		{name: "customer name", kind: RegisterCustomer, step: "name"},
		{
			name: "catalog category",
			kind: AddCatalogItem,
			step: "category",
			setup: func(f *fixture) {
				f.mocks.Products.On("Categories", mock.Anything).Return([]string{"Молочка"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, skip := range []string{menu.Skip, menu.SkipCommand} {
				f := newFixture(t)
				if tt.setup != nil {
					tt.setup(f)
				}
				require.NoError(t, f.engine.Start(t.Context(), operator, tt.kind))

				assert.Equal(t, wizard.Retried, f.send(t, skip), skip)
				assert.Equal(t, tt.step, f.step(t))
				assert.Contains(t, f.transport.Last(operator).Text, "нельзя пропустить")

				state, ok := f.store.Get(operator)
				require.True(t, ok)
				assert.False(t, state.Fields.Has(tt.step), "skip label must not be stored")
			}
		})
	}
}

func TestRegisterCustomer_Commits(t *testing.T) {
	f := newFixture(t)
	f.mocks.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(false, nil)
	f.mocks.Customers.On("CardExists", mock.Anything, mock.Anything).Return(false, nil)
	f.mocks.Bonuses.On("DefaultProgram", mock.Anything).Return(nil, domain.ErrNotFound)
	f.mocks.Customers.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Name == "Анна" && c.Phone == "+79001234567" && c.Birthday != nil && c.IsActive
	})).Return(int64(5), nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, RegisterCustomer))
	f.send(t, "Анна")
	f.send(t, "8 (900) 123-45-67")
	assert.Equal(t, wizard.Retried, f.send(t, "31.12.2030"))
	assert.Equal(t, wizard.Advanced, f.send(t, "01.02.1990"))
	assert.Equal(t, wizard.Committed, f.send(t, menu.Yes))

	msgs := f.transport.Messages[operator]
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Contains(t, msgs[len(msgs)-2].Text, domain.CardNumberPrefix+"-")
	assert.NotEmpty(t, msgs[len(msgs)-1].Inline)
	f.mocks.AssertExpectations(t)
}

func TestRegisterCustomer_PhoneTaken(t *testing.T) {
	f := newFixture(t)
	f.mocks.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(true, nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, RegisterCustomer))
	f.send(t, "Анна")

	assert.Equal(t, wizard.Retried, f.send(t, "+79001234567"))
	assert.Contains(t, f.transport.Last(operator).Text, "уже зарегистрирован")
}

func TestAddPurchase_PresetCustomerSkipsCard(t *testing.T) {
	f := newFixture(t)
	f.mocks.Customers.On("Get", mock.Anything, int64(5)).Return(testutil.NewTestCustomer(5, "0"), nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, AddPurchase,
		wizard.Pair{Key: FieldCustomerID, Value: int64(5)},
		wizard.Pair{Key: FieldCustomerName, Value: "Анна"},
	))
	assert.Equal(t, "amount", f.step(t))

	assert.Equal(t, wizard.Retried, f.send(t, "-10"))
	assert.Equal(t, wizard.Retried, f.send(t, "abc"))
	f.send(t, "500")
	f.send(t, menu.Skip)

	confirm := f.transport.Last(operator).Text
	assert.Contains(t, confirm, "Анна")
	assert.Contains(t, confirm, "15.00 ₽ (3%)")

	assert.Equal(t, wizard.Declined, f.send(t, menu.No))
	f.mocks.Customers.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestAddPurchase_UnknownCardRetries(t *testing.T) {
	f := newFixture(t)
	f.mocks.Customers.On("FindByCard", mock.Anything, "LBC-0000-0000-0000").Return(nil, domain.ErrNotFound)

	require.NoError(t, f.engine.Start(t.Context(), operator, AddPurchase))
	assert.Equal(t, wizard.Retried, f.send(t, "lbc-0000-0000-0000"))
	assert.Equal(t, "card", f.step(t))
}

func TestSearchCustomer_OpensBrowseList(t *testing.T) {
	f := newFixture(t)
	found := []domain.Customer{*testutil.NewTestCustomer(5, "0"), *testutil.NewTestCustomer(6, "0")}
	found[1].Name = "Анна Петрова"
	f.mocks.Customers.On("Search", mock.Anything, domain.SearchByName, "Анна").Return(found, nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, SearchCustomer))
	f.send(t, menu.SearchByName)
	assert.Equal(t, wizard.Committed, f.send(t, "Анна"))

	list, ok := f.lists.Get(operator)
	require.True(t, ok)
	assert.Empty(t, list.Owner)
	assert.Equal(t, menu.CustomerList, list.Name)
	assert.Equal(t, menu.ActCustomerShow, list.ShowAction)
	assert.Len(t, list.Items, 2)

	last := f.transport.Last(operator)
	require.Len(t, last.Inline, 2)
	assert.Equal(t, int64(6), last.Inline[1][0].Token.ID)
}

func TestSearchCustomer_ByIDNeedsNumber(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Start(t.Context(), operator, SearchCustomer))
	f.send(t, menu.SearchByID)
	assert.Equal(t, wizard.Retried, f.send(t, "abc"))
	assert.Equal(t, "query", f.step(t))
}

func TestSetupReminder_FixedTypeSkipsCustomText(t *testing.T) {
	f := newFixture(t)
	f.mocks.Reminders.On("Upsert", mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.UserID == operator && r.ChatID == operator && r.Hour == 10 && r.Minute == 30 &&
			r.Type == domain.ReminderCheckStock && len(r.Days) == 2
	})).Return(int64(3), nil)
	f.scheduler.On("ScheduleRecurring", domain.ReminderKey(operator), "30 10 * * 1,3").Return(nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, SetupReminder))
	assert.Equal(t, wizard.Retried, f.send(t, "0,9"))
	f.send(t, "3,1")
	assert.Equal(t, wizard.Retried, f.send(t, "25:00"))
	f.send(t, "10:30")
	f.send(t, menu.CheckStock)
	assert.Equal(t, "confirm", f.step(t))
	assert.Equal(t, wizard.Committed, f.send(t, menu.Yes))

	assert.Contains(t, f.transport.Last(operator).Text, "Пн, Ср в 10:30")
	f.mocks.AssertExpectations(t)
	f.scheduler.AssertExpectations(t)
}

func TestSetupReminder_CustomTextStep(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Start(t.Context(), operator, SetupReminder))
	f.send(t, "5")
	f.send(t, "18:00")
	f.send(t, menu.OwnVariant)
	assert.Equal(t, "custom_text", f.step(t))

	f.send(t, "Заказать молоко")
	assert.Equal(t, "confirm", f.step(t))
	assert.Contains(t, f.transport.Last(operator).Text, "Заказать молоко")
}

func TestCloseShift_WithoutActiveReport(t *testing.T) {
	f := newFixture(t)
	f.mocks.Reports.On("Active", mock.Anything).Return(nil, domain.ErrNotFound)

	require.NoError(t, f.engine.Start(t.Context(), operator, CloseShift))

	assert.False(t, f.engine.Active(operator))
	assert.Contains(t, f.transport.Last(operator).Text, "Нет открытой смены")
}

func TestAddExpense_UpdatesReport(t *testing.T) {
	f := newFixture(t)
	rep := testutil.NewTestReport(4, 5000)
	f.mocks.Reports.On("GetForUpdate", mock.Anything, int64(4)).Return(rep, nil)
	f.mocks.Reports.On("AddExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ReportID == 4 && e.Amount == 700 && e.Description == "Молоко"
	})).Return(int64(1), nil)
	f.mocks.Reports.On("Update", mock.Anything, mock.MatchedBy(func(r domain.ShiftReport) bool {
		return r.CashWasted == 700 && r.CashRest == 4300
	})).Return(nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, AddExpense, wizard.Pair{Key: FieldReportID, Value: int64(4)}))
	assert.Equal(t, wizard.Retried, f.send(t, "0"))
	f.send(t, "700")
	assert.Equal(t, wizard.Committed, f.send(t, "Молоко"))

	last := f.transport.Last(operator)
	assert.Equal(t, menu.ReportPanel(4), last.Inline)
	f.mocks.Reports.AssertNotCalled(t, "Active", mock.Anything)
	f.mocks.AssertExpectations(t)
}

func TestEditCategory_SameNameRetries(t *testing.T) {
	f := newFixture(t)
	f.mocks.Products.On("Categories", mock.Anything).Return([]string{"Молочка", "Сиропы"}, nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, EditCategory))
	f.send(t, "2")

	assert.Equal(t, wizard.Retried, f.send(t, "Сиропы"))
	assert.Equal(t, "new_name", f.step(t))
}

func TestEditCatalogItem_SingleMatchSkipsSelection(t *testing.T) {
	f := newFixture(t)
	f.mocks.Products.On("Search", mock.Anything, "латте").Return([]domain.Product{
		{ID: 8, Name: "Латте", Unit: "шт", DefaultQuantity: decimal.NewFromInt(1)},
	}, nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, EditCatalogItem))
	f.send(t, "латте")

	assert.Equal(t, "field", f.step(t))
	state, _ := f.store.Get(operator)
	assert.Equal(t, int64(8), state.Fields.Int64(fieldProductID))
}

func TestChangeRole_LastAdminMessage(t *testing.T) {
	f := newFixture(t)
	f.mocks.Users.On("List", mock.Anything).Return([]domain.User{
		*testutil.NewTestUser(operator, domain.RoleAdmin),
		*testutil.NewTestUser(2, domain.RoleAdmin),
	}, nil)
	f.mocks.Users.On("Get", mock.Anything, operator).Return(testutil.NewTestUser(operator, domain.RoleAdmin), nil)
	// a concurrent demotion left a single admin row locked
	f.mocks.Users.On("LockAdmins", mock.Anything).Return(1, nil)
	f.mocks.Users.On("GetForUpdate", mock.Anything, int64(2)).Return(testutil.NewTestUser(2, domain.RoleAdmin), nil)

	require.NoError(t, f.engine.Start(t.Context(), operator, ChangeRole))
	list, ok := f.transport.LastList(operator)
	require.True(t, ok)
	require.Len(t, list.Items, 1, "the actor is not offered")

	f.send(t, "1")
	f.send(t, domain.RoleManager.DisplayName())
	assert.Equal(t, wizard.Failed, f.send(t, menu.Yes))

	assert.Contains(t, f.transport.Last(operator).Text, "последнего администратора")
	f.mocks.Users.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{name: "last admin", err: domain.ErrLastAdmin, want: "последнего администратора", ok: true},
		{name: "wrapped duplicate", err: errors.Join(errors.New("create"), domain.ErrDuplicate), want: "уже существует", ok: true},
		{name: "no report", err: domain.ErrNoActiveReport, want: "Нет открытой смены", ok: true},
		{name: "storage", err: errors.New("connection reset"), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := failureMessage(tt.err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Contains(t, got, tt.want)
			}
		})
	}
}

// expectFirstPrompts stubs every lookup a wizard may run before its first prompt
func (f *fixture) expectFirstPrompts() {
	f.expectProgramList()
	f.mocks.Users.On("List", mock.Anything).Return([]domain.User{
		{UserID: 2, FirstName: "Анна", Role: domain.RoleBarista},
	}, nil).Maybe()
	f.mocks.Bonuses.On("AllLevels", mock.Anything).Return([]domain.BonusLevel{
		{ID: 4, ProgramID: 1, Name: "Bronze", MinPurchases: decimal.NewFromInt(1000), Percent: decimal.NewFromInt(5)},
	}, nil).Maybe()
	f.mocks.Products.On("Categories", mock.Anything).Return([]string{"Молоко"}, nil).Maybe()
	f.mocks.Customers.On("List", mock.Anything, mock.Anything).Return([]domain.Customer{
		{ID: 5, Name: "Ольга", CardNumber: "12345", IsActive: true},
	}, nil).Maybe()
	f.mocks.Reports.On("Active", mock.Anything).Return(testutil.NewTestReport(3, 1000), nil).Maybe()
}

func TestDefinitions_CancelAtFirstStep(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(t)
			f.expectFirstPrompts()

			var preset []wizard.Pair
			if kind == SetCustomerStatus {
				preset = append(preset, wizard.Pair{Key: FieldActive, Value: false})
			}
			require.NoError(t, f.engine.Start(t.Context(), operator, kind, preset...))
			require.True(t, f.engine.Active(operator))

			assert.Equal(t, wizard.Cancelled, f.send(t, menu.Cancel))
			assert.False(t, f.engine.Active(operator))
			_, ok := f.store.Get(operator)
			assert.False(t, ok)
		})
	}
}
