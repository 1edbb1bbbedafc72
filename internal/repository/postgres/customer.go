package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"baristabot/internal/domain"

	"github.com/shopspring/decimal"
)

// CustomerRepo implements repository.CustomerRepository
type CustomerRepo struct {
	db querier
}

// NewCustomerRepo creates a new customer repository
func NewCustomerRepo(db querier) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `customer_id, user_id, name, phone, birthday, card_number, registered_at,
	is_active, bonus_program_id, total_purchases, total_bonuses, available_bonuses`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var userID, programID sql.NullInt64
	var birthday sql.NullTime
	err := row.Scan(&c.ID, &userID, &c.Name, &c.Phone, &birthday, &c.CardNumber, &c.RegisteredAt,
		&c.IsActive, &programID, &c.TotalPurchases, &c.TotalBonuses, &c.AvailableBonuses)
	if err != nil {
		return nil, err
	}
	c.UserID = int64Ptr(userID)
	c.BonusProgramID = int64Ptr(programID)
	if birthday.Valid {
		b := birthday.Time
		c.Birthday = &b
	}
	return &c, nil
}

func (r *CustomerRepo) queryCustomers(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepo) queryOne(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// Create inserts a customer
func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (int64, error) {
	query := `
		INSERT INTO customers (user_id, name, phone, birthday, card_number, bonus_program_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING customer_id
	`
	var birthday sql.NullTime
	if c.Birthday != nil {
		birthday = sql.NullTime{Time: *c.Birthday, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		nullInt64(c.UserID), c.Name, c.Phone, birthday, c.CardNumber, nullInt64(c.BonusProgramID),
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Get returns customer by id
func (r *CustomerRepo) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.queryOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, id)
}

// GetForUpdate returns customer by id and locks the row
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.queryOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1 FOR UPDATE`, id)
}

// FindByCard returns customer by card number
func (r *CustomerRepo) FindByCard(ctx context.Context, card string) (*domain.Customer, error) {
	return r.queryOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE UPPER(card_number) = UPPER($1)`, card)
}

// FindByUserID returns the customer linked to a bot user
func (r *CustomerRepo) FindByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	return r.queryOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1`, userID)
}

// Search finds customers by a single attribute
func (r *CustomerRepo) Search(ctx context.Context, mode domain.CustomerSearchMode, q string) ([]domain.Customer, error) {
	var where string
	switch mode {
	case domain.SearchByCard:
		where = `card_number ILIKE '%' || $1 || '%'`
	case domain.SearchByPhone:
		where = `phone LIKE '%' || $1 || '%'`
	case domain.SearchByName:
		where = `name ILIKE '%' || $1 || '%'`
	case domain.SearchByID:
		where = `customer_id::TEXT = $1`
	default:
		return nil, fmt.Errorf("%w: search mode %q", domain.ErrInvalidInput, mode)
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + where + ` ORDER BY name LIMIT 20`
	return r.queryCustomers(ctx, query, q)
}

// List returns the most recently registered customers
func (r *CustomerRepo) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY registered_at DESC LIMIT $1`
	return r.queryCustomers(ctx, query, limit)
}

func (r *CustomerRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Counts returns how many customers exist and how many of them are active
func (r *CustomerRepo) Counts(ctx context.Context) (total, active int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM customers`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &active)
	return total, active, err
}

// PhoneExists checks whether the phone is already registered
func (r *CustomerRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE phone = $1)`, phone)
}

// CardExists checks whether the card number is taken
func (r *CustomerRepo) CardExists(ctx context.Context, card string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE card_number = $1)`, card)
}

// SetActive toggles the customer's card
func (r *CustomerRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE customers SET is_active = $1 WHERE customer_id = $2`, active, id))
}

// AddTotals increments purchase and bonus totals
func (r *CustomerRepo) AddTotals(ctx context.Context, id int64, purchase, bonus decimal.Decimal) error {
	query := `
		UPDATE customers
		SET total_purchases = total_purchases + $1,
		    total_bonuses = total_bonuses + $2,
		    available_bonuses = available_bonuses + $2
		WHERE customer_id = $3
	`
	return expectOne(r.db.ExecContext(ctx, query, purchase, bonus, id))
}

// AddPurchase records a purchase
func (r *CustomerRepo) AddPurchase(ctx context.Context, p domain.Purchase) (int64, error) {
	query := `
		INSERT INTO customer_purchases (customer_id, amount, bonus_earned, description, operator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING purchase_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, p.CustomerID, p.Amount, p.BonusEarned, p.Description, p.OperatorID).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// AddBonusTransaction appends to the bonus ledger
func (r *CustomerRepo) AddBonusTransaction(ctx context.Context, customerID, purchaseID int64, amount decimal.Decimal, kind domain.BonusTransactionType, description string) error {
	query := `
		INSERT INTO bonus_transactions (customer_id, purchase_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, customerID, purchaseID, amount, string(kind), description)
	return mapError(err)
}

// Purchases returns the latest purchases of a customer
func (r *CustomerRepo) Purchases(ctx context.Context, customerID int64, limit int) ([]domain.Purchase, error) {
	query := `
		SELECT purchase_id, customer_id, amount, bonus_earned, description, COALESCE(operator_id, 0), created_at
		FROM customer_purchases
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.BonusEarned, &p.Description, &p.OperatorID, &p.CreatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
