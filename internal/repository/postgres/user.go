package postgres

import (
	"context"
	"fmt"

	"baristabot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db querier
}

// NewUserRepo creates a new user repository
func NewUserRepo(db querier) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `user_id, username, first_name, last_name, phone, role, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.UserID, &u.Username, &u.FirstName, &u.LastName, &u.Phone, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	// unknown strings are kept as-is; callers treat them as guest
	u.Role = domain.Role(role)
	return &u, nil
}

// Get returns user by id
func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// GetForUpdate returns user by id and locks the row until the transaction ends
func (r *UserRepo) GetForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// Create inserts user if not exists and reports whether a row was added
func (r *UserRepo) Create(ctx context.Context, user domain.User) (bool, error) {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, user.UserID, user.Username, user.FirstName, user.LastName, string(user.Role))
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all users, admins first
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY CASE role
			WHEN 'admin' THEN 0
			WHEN 'manager' THEN 1
			WHEN 'barista' THEN 2
			WHEN 'visitor' THEN 3
			ELSE 4
		END, created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

var userFieldColumns = map[domain.UserField]string{
	domain.UserFieldUsername:  "username",
	domain.UserFieldFirstName: "first_name",
	domain.UserFieldLastName:  "last_name",
	domain.UserFieldPhone:     "phone",
}

// UpdateField sets one profile column
func (r *UserRepo) UpdateField(ctx context.Context, userID int64, field domain.UserField, value string) error {
	column, ok := userFieldColumns[field]
	if !ok {
		return fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	query := `UPDATE users SET ` + column + ` = $1 WHERE user_id = $2`
	return expectOne(r.db.ExecContext(ctx, query, value, userID))
}

// SetRole stores the user's role
func (r *UserRepo) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	query := `UPDATE users SET role = $1 WHERE user_id = $2`
	return expectOne(r.db.ExecContext(ctx, query, string(role), userID))
}

// Delete removes the user
func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE user_id = $1`
	return expectOne(r.db.ExecContext(ctx, query, userID))
}

// LockAdmins locks every admin row and returns their number.
// Must run inside a transaction to hold the locks.
func (r *UserRepo) LockAdmins(ctx context.Context) (int, error) {
	query := `SELECT user_id FROM users WHERE role = 'admin' ORDER BY user_id FOR UPDATE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		count++
	}
	return count, rows.Err()
}
