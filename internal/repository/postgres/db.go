package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const uniqueViolation = "23505"

// mapError converts driver errors into domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// expectOne turns a zero-row update into domain.ErrNotFound
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NewRepos binds every repository to q
func NewRepos(q querier) repository.Repos {
	return repository.Repos{
		Users:     NewUserRepo(q),
		Products:  NewProductRepo(q),
		Customers: NewCustomerRepo(q),
		Bonuses:   NewBonusRepo(q),
		Reports:   NewReportRepo(q),
		Reminders: NewReminderRepo(q),
		Inventory: NewInventoryRepo(q),
	}
}

// TxRunner runs callbacks inside a PostgreSQL transaction
type TxRunner struct {
	db *sql.DB
}

var _ repository.TxRunner = (*TxRunner)(nil)

// NewTxRunner creates a runner over db
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run begins a transaction, calls fn with repositories bound to it, and
// commits when fn succeeds. Any error rolls the transaction back.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// nullInt64 maps an optional id to a nullable column value
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
