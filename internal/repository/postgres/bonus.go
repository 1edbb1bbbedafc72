package postgres

import (
	"context"
	"database/sql"

	"baristabot/internal/domain"
)

// BonusRepo implements repository.BonusRepository
type BonusRepo struct {
	db querier
}

// NewBonusRepo creates a new loyalty repository
func NewBonusRepo(db querier) *BonusRepo {
	return &BonusRepo{db: db}
}

const programColumns = `program_id, name, description, base_percent, min_purchase_amount, is_active, COALESCE(created_by, 0), created_at`

func scanProgram(row rowScanner) (*domain.BonusProgram, error) {
	var p domain.BonusProgram
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BasePercent, &p.MinPurchaseAmount, &p.IsActive, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProgram inserts a bonus program
func (r *BonusRepo) CreateProgram(ctx context.Context, p domain.BonusProgram) (int64, error) {
	query := `
		INSERT INTO bonus_programs (name, description, base_percent, min_purchase_amount, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING program_id
	`
	createdBy := sql.NullInt64{Int64: p.CreatedBy, Valid: p.CreatedBy != 0}
	var id int64
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.BasePercent, p.MinPurchaseAmount, createdBy).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Programs lists all programs by id
func (r *BonusRepo) Programs(ctx context.Context) ([]domain.BonusProgram, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+programColumns+` FROM bonus_programs ORDER BY program_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []domain.BonusProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *p)
	}
	return programs, rows.Err()
}

// Program returns program by id
func (r *BonusRepo) Program(ctx context.Context, id int64) (*domain.BonusProgram, error) {
	p, err := scanProgram(r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM bonus_programs WHERE program_id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// DefaultProgram returns the oldest active program
func (r *BonusRepo) DefaultProgram(ctx context.Context) (*domain.BonusProgram, error) {
	query := `SELECT ` + programColumns + ` FROM bonus_programs WHERE is_active ORDER BY program_id LIMIT 1`
	p, err := scanProgram(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// ProgramNameExists checks for a case-insensitive name match
func (r *BonusRepo) ProgramNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bonus_programs WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	return exists, err
}

// CreateLevel inserts a bonus level
func (r *BonusRepo) CreateLevel(ctx context.Context, l domain.BonusLevel) (int64, error) {
	query := `
		INSERT INTO bonus_levels (program_id, name, min_purchases, percent, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING level_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, l.ProgramID, l.Name, l.MinPurchases, l.Percent, l.Description).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *BonusRepo) queryLevels(ctx context.Context, query string, args ...any) ([]domain.BonusLevel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []domain.BonusLevel
	for rows.Next() {
		var l domain.BonusLevel
		if err := rows.Scan(&l.ID, &l.ProgramID, &l.Name, &l.MinPurchases, &l.Percent, &l.Description); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// Levels lists levels of a program by threshold
func (r *BonusRepo) Levels(ctx context.Context, programID int64) ([]domain.BonusLevel, error) {
	query := `
		SELECT level_id, program_id, name, min_purchases, percent, description
		FROM bonus_levels
		WHERE program_id = $1
		ORDER BY min_purchases
	`
	return r.queryLevels(ctx, query, programID)
}

// AllLevels lists every level grouped by program
func (r *BonusRepo) AllLevels(ctx context.Context) ([]domain.BonusLevel, error) {
	query := `
		SELECT level_id, program_id, name, min_purchases, percent, description
		FROM bonus_levels
		ORDER BY program_id, min_purchases
	`
	return r.queryLevels(ctx, query)
}

// DeleteLevel removes a level
func (r *BonusRepo) DeleteLevel(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM bonus_levels WHERE level_id = $1`, id))
}
