package testutil

import (
	"context"
	"time"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateField(ctx context.Context, userID int64, field domain.UserField, value string) error {
	args := m.Called(ctx, userID, field, value)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) LockAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockProductRepository is a mock for ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p domain.Product) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) NameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) UpdateField(ctx context.Context, id int64, field domain.ProductField, value any) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) RenameCategory(ctx context.Context, from, to string) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock for CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c domain.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return m.customer(m.Called(ctx, id))
}

func (m *MockCustomerRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Customer, error) {
	return m.customer(m.Called(ctx, id))
}

func (m *MockCustomerRepository) FindByCard(ctx context.Context, card string) (*domain.Customer, error) {
	return m.customer(m.Called(ctx, card))
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	return m.customer(m.Called(ctx, userID))
}

func (m *MockCustomerRepository) customer(args mock.Arguments) (*domain.Customer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, mode domain.CustomerSearchMode, query string) ([]domain.Customer, error) {
	args := m.Called(ctx, mode, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) CardExists(ctx context.Context, card string) (bool, error) {
	args := m.Called(ctx, card)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockCustomerRepository) AddTotals(ctx context.Context, id int64, purchase, bonus decimal.Decimal) error {
	args := m.Called(ctx, id, purchase, bonus)
	return args.Error(0)
}

func (m *MockCustomerRepository) AddPurchase(ctx context.Context, p domain.Purchase) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) AddBonusTransaction(ctx context.Context, customerID, purchaseID int64, amount decimal.Decimal, kind domain.BonusTransactionType, description string) error {
	args := m.Called(ctx, customerID, purchaseID, amount, kind, description)
	return args.Error(0)
}

func (m *MockCustomerRepository) Purchases(ctx context.Context, customerID int64, limit int) ([]domain.Purchase, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockCustomerRepository) Counts(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockBonusRepository is a mock for BonusRepository
type MockBonusRepository struct {
	mock.Mock
}

func (m *MockBonusRepository) CreateProgram(ctx context.Context, p domain.BonusProgram) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBonusRepository) Programs(ctx context.Context) ([]domain.BonusProgram, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BonusProgram), args.Error(1)
}

func (m *MockBonusRepository) Program(ctx context.Context, id int64) (*domain.BonusProgram, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BonusProgram), args.Error(1)
}

func (m *MockBonusRepository) DefaultProgram(ctx context.Context) (*domain.BonusProgram, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BonusProgram), args.Error(1)
}

func (m *MockBonusRepository) ProgramNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockBonusRepository) CreateLevel(ctx context.Context, l domain.BonusLevel) (int64, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBonusRepository) Levels(ctx context.Context, programID int64) ([]domain.BonusLevel, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BonusLevel), args.Error(1)
}

func (m *MockBonusRepository) AllLevels(ctx context.Context) ([]domain.BonusLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BonusLevel), args.Error(1)
}

func (m *MockBonusRepository) DeleteLevel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportRepository is a mock for ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) DeactivateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReportRepository) Create(ctx context.Context, r domain.ShiftReport) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) Active(ctx context.Context) (*domain.ShiftReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftReport), args.Error(1)
}

func (m *MockReportRepository) GetForUpdate(ctx context.Context, id int64) (*domain.ShiftReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftReport), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, r domain.ShiftReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) AddExpense(ctx context.Context, e domain.Expense) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) Expenses(ctx context.Context, reportID int64) ([]domain.Expense, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockReportRepository) History(ctx context.Context, limit int) ([]domain.ShiftReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftReport), args.Error(1)
}

// MockReminderRepository is a mock for ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Upsert(ctx context.Context, r domain.Reminder) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) Get(ctx context.Context, userID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockReminderRepository) Active(ctx context.Context) ([]domain.Reminder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

// MockInventoryRepository is a mock for InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) ActiveList(ctx context.Context, userID int64) (*domain.InventoryList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryList), args.Error(1)
}

func (m *MockInventoryRepository) CreateList(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) AddItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) Items(ctx context.Context, listID int64) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ClearItems(ctx context.Context, listID int64) error {
	args := m.Called(ctx, listID)
	return args.Error(0)
}

func (m *MockInventoryRepository) Complete(ctx context.Context, listID, by int64) error {
	args := m.Called(ctx, listID, by)
	return args.Error(0)
}

func (m *MockInventoryRepository) PurgeCompleted(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

// Mocks bundles one mock per repository
type Mocks struct {
	Users     *MockUserRepository
	Products  *MockProductRepository
	Customers *MockCustomerRepository
	Bonuses   *MockBonusRepository
	Reports   *MockReportRepository
	Reminders *MockReminderRepository
	Inventory *MockInventoryRepository
}

// NewMocks creates a fresh set of repository mocks
func NewMocks() *Mocks {
	return &Mocks{
		Users:     new(MockUserRepository),
		Products:  new(MockProductRepository),
		Customers: new(MockCustomerRepository),
		Bonuses:   new(MockBonusRepository),
		Reports:   new(MockReportRepository),
		Reminders: new(MockReminderRepository),
		Inventory: new(MockInventoryRepository),
	}
}

// Repos exposes the mocks as repository.Repos
func (m *Mocks) Repos() repository.Repos {
	return repository.Repos{
		Users:     m.Users,
		Products:  m.Products,
		Customers: m.Customers,
		Bonuses:   m.Bonuses,
		Reports:   m.Reports,
		Reminders: m.Reminders,
		Inventory: m.Inventory,
	}
}

// AssertExpectations checks every mock in the set
func (m *Mocks) AssertExpectations(t mock.TestingT) {
	m.Users.AssertExpectations(t)
	m.Products.AssertExpectations(t)
	m.Customers.AssertExpectations(t)
	m.Bonuses.AssertExpectations(t)
	m.Reports.AssertExpectations(t)
	m.Reminders.AssertExpectations(t)
	m.Inventory.AssertExpectations(t)
}

// TxRunner runs fn directly against the mocks. Runs counts invocations.
type TxRunner struct {
	Mocks *Mocks
	Err   error
	Runs  int
}

// Run implements repository.TxRunner
func (r *TxRunner) Run(_ context.Context, fn func(repository.Repos) error) error {
	r.Runs++
	if r.Err != nil {
		return r.Err
	}
	return fn(r.Mocks.Repos())
}

// MockScheduler is a mock for the reminder scheduler
type MockScheduler struct {
	mock.Mock
	Jobs map[string]func()
}

func (m *MockScheduler) ScheduleRecurring(key, spec string, fn func()) error {
	args := m.Called(key, spec)
	if args.Error(0) == nil {
		if m.Jobs == nil {
			m.Jobs = make(map[string]func())
		}
		m.Jobs[key] = fn
	}
	return args.Error(0)
}

func (m *MockScheduler) Cancel(key string) {
	m.Called(key)
	delete(m.Jobs, key)
}

func (m *MockScheduler) Next(key string, from time.Time) (time.Time, bool) {
	args := m.Called(key, from)
	return args.Get(0).(time.Time), args.Bool(1)
}

func (m *MockScheduler) Len() int {
	args := m.Called()
	return args.Int(0)
}

// MockNotifier is a mock for chat.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}
