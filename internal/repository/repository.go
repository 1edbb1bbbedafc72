package repository

import (
	"context"

	"baristabot/internal/domain"

	"github.com/shopspring/decimal"
)

// UserRepository defines user data operations
type UserRepository interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	GetForUpdate(ctx context.Context, userID int64) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateField(ctx context.Context, userID int64, field domain.UserField, value string) error
	SetRole(ctx context.Context, userID int64, role domain.Role) error
	Delete(ctx context.Context, userID int64) error
	LockAdmins(ctx context.Context) (int, error)
}

// ProductRepository defines catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	NameExists(ctx context.Context, name string) (bool, error)
	UpdateField(ctx context.Context, id int64, field domain.ProductField, value any) error
	Deactivate(ctx context.Context, id int64) error
	RenameCategory(ctx context.Context, from, to string) (int64, error)
}

// CustomerRepository defines customer, purchase and bonus ledger operations
type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Customer, error)
	FindByCard(ctx context.Context, card string) (*domain.Customer, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
	Search(ctx context.Context, mode domain.CustomerSearchMode, query string) ([]domain.Customer, error)
	List(ctx context.Context, limit int) ([]domain.Customer, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	CardExists(ctx context.Context, card string) (bool, error)
	SetActive(ctx context.Context, id int64, active bool) error
	AddTotals(ctx context.Context, id int64, purchase, bonus decimal.Decimal) error
	AddPurchase(ctx context.Context, p domain.Purchase) (int64, error)
	AddBonusTransaction(ctx context.Context, customerID, purchaseID int64, amount decimal.Decimal, kind domain.BonusTransactionType, description string) error
	Purchases(ctx context.Context, customerID int64, limit int) ([]domain.Purchase, error)
	Counts(ctx context.Context) (total, active int, err error)
}

// BonusRepository defines loyalty program operations
type BonusRepository interface {
	CreateProgram(ctx context.Context, p domain.BonusProgram) (int64, error)
	Programs(ctx context.Context) ([]domain.BonusProgram, error)
	Program(ctx context.Context, id int64) (*domain.BonusProgram, error)
	DefaultProgram(ctx context.Context) (*domain.BonusProgram, error)
	ProgramNameExists(ctx context.Context, name string) (bool, error)
	CreateLevel(ctx context.Context, l domain.BonusLevel) (int64, error)
	Levels(ctx context.Context, programID int64) ([]domain.BonusLevel, error)
	AllLevels(ctx context.Context) ([]domain.BonusLevel, error)
	DeleteLevel(ctx context.Context, id int64) error
}

// ReportRepository defines shift report operations
type ReportRepository interface {
	DeactivateAll(ctx context.Context) error
	Create(ctx context.Context, r domain.ShiftReport) (int64, error)
	Active(ctx context.Context) (*domain.ShiftReport, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.ShiftReport, error)
	Update(ctx context.Context, r domain.ShiftReport) error
	AddExpense(ctx context.Context, e domain.Expense) (int64, error)
	Expenses(ctx context.Context, reportID int64) ([]domain.Expense, error)
	History(ctx context.Context, limit int) ([]domain.ShiftReport, error)
}

// ReminderRepository defines reminder operations
type ReminderRepository interface {
	Upsert(ctx context.Context, r domain.Reminder) (int64, error)
	Get(ctx context.Context, userID int64) (*domain.Reminder, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	Active(ctx context.Context) ([]domain.Reminder, error)
}

// InventoryRepository defines inventory count operations
type InventoryRepository interface {
	ActiveList(ctx context.Context, userID int64) (*domain.InventoryList, error)
	CreateList(ctx context.Context, userID int64) (int64, error)
	AddItem(ctx context.Context, item domain.InventoryItem) (int64, error)
	Items(ctx context.Context, listID int64) ([]domain.InventoryItem, error)
	ClearItems(ctx context.Context, listID int64) error
	Complete(ctx context.Context, listID, by int64) error
	PurgeCompleted(ctx context.Context, retentionDays int) (int64, error)
}

// Repos bundles every repository bound to one connection or transaction
type Repos struct {
	Users     UserRepository
	Products  ProductRepository
	Customers CustomerRepository
	Bonuses   BonusRepository
	Reports   ReportRepository
	Reminders ReminderRepository
	Inventory InventoryRepository
}

// TxRunner runs fn with repositories bound to a single transaction.
// The transaction commits only when fn returns nil.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
