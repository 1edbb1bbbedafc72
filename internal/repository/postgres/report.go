package postgres

import (
	"context"
	"database/sql"

	"baristabot/internal/domain"
)

// ReportRepo implements repository.ReportRepository
type ReportRepo struct {
	db querier
}

// NewReportRepo creates a new shift report repository
func NewReportRepo(db querier) *ReportRepo {
	return &ReportRepo{db: db}
}

const reportColumns = `report_id, COALESCE(user_id, 0), username, phone, cash_morning, cash_wasted,
	cash_online, cash_in, cash_rest, description, is_active, created_at, updated_at`

func scanReport(row rowScanner) (*domain.ShiftReport, error) {
	var r domain.ShiftReport
	err := row.Scan(&r.ID, &r.UserID, &r.Username, &r.Phone, &r.CashMorning, &r.CashWasted,
		&r.CashOnline, &r.CashIn, &r.CashRest, &r.Description, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeactivateAll closes every open report
func (r *ReportRepo) DeactivateAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE shift_reports SET is_active = FALSE, updated_at = NOW() WHERE is_active`)
	return err
}

// Create inserts a report
func (r *ReportRepo) Create(ctx context.Context, rep domain.ShiftReport) (int64, error) {
	query := `
		INSERT INTO shift_reports (user_id, username, phone, cash_morning, cash_rest, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING report_id
	`
	userID := sql.NullInt64{Int64: rep.UserID, Valid: rep.UserID != 0}
	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, rep.Username, rep.Phone, rep.CashMorning, rep.CashRest, rep.Description).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Active returns the newest open report
func (r *ReportRepo) Active(ctx context.Context) (*domain.ShiftReport, error) {
	query := `SELECT ` + reportColumns + ` FROM shift_reports WHERE is_active ORDER BY created_at DESC LIMIT 1`
	rep, err := scanReport(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, mapError(err)
	}
	return rep, nil
}

// GetForUpdate returns report by id and locks it
func (r *ReportRepo) GetForUpdate(ctx context.Context, id int64) (*domain.ShiftReport, error) {
	query := `SELECT ` + reportColumns + ` FROM shift_reports WHERE report_id = $1 FOR UPDATE`
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return rep, nil
}

// Update writes cash columns and the active flag
func (r *ReportRepo) Update(ctx context.Context, rep domain.ShiftReport) error {
	query := `
		UPDATE shift_reports
		SET cash_wasted = $1, cash_online = $2, cash_in = $3, cash_rest = $4,
		    description = $5, is_active = $6, updated_at = NOW()
		WHERE report_id = $7
	`
	return expectOne(r.db.ExecContext(ctx, query,
		rep.CashWasted, rep.CashOnline, rep.CashIn, rep.CashRest, rep.Description, rep.IsActive, rep.ID))
}

// AddExpense records an expense
func (r *ReportRepo) AddExpense(ctx context.Context, e domain.Expense) (int64, error) {
	query := `
		INSERT INTO report_expenses (report_id, amount, description)
		VALUES ($1, $2, $3)
		RETURNING expense_id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, e.ReportID, e.Amount, e.Description).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Expenses lists a report's expenses in order
func (r *ReportRepo) Expenses(ctx context.Context, reportID int64) ([]domain.Expense, error) {
	query := `
		SELECT expense_id, report_id, amount, description, created_at
		FROM report_expenses
		WHERE report_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.ReportID, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// History returns the latest reports
func (r *ReportRepo) History(ctx context.Context, limit int) ([]domain.ShiftReport, error) {
	query := `SELECT ` + reportColumns + ` FROM shift_reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.ShiftReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}
