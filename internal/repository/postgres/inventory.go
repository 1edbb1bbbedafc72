package postgres

import (
	"context"

	"baristabot/internal/domain"
)

// InventoryRepo implements repository.InventoryRepository
type InventoryRepo struct {
	db querier
}

// NewInventoryRepo creates a new inventory repository
func NewInventoryRepo(db querier) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// ActiveList returns the user's open list
func (r *InventoryRepo) ActiveList(ctx context.Context, userID int64) (*domain.InventoryList, error) {
	query := `
		SELECT list_id, user_id, name, status, created_at
		FROM inventory_lists
		WHERE user_id = $1 AND status = 'active'
	`
	var l domain.InventoryList
	var status string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&l.ID, &l.UserID, &l.Name, &status, &l.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	l.Status = domain.InventoryStatus(status)
	return &l, nil
}

// CreateList opens a list for the user
func (r *InventoryRepo) CreateList(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `INSERT INTO inventory_lists (user_id) VALUES ($1) RETURNING list_id`, userID).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// AddItem inserts an item or replaces the quantity of an existing one
func (r *InventoryRepo) AddItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	query := `
		INSERT INTO inventory_items (list_id, name, quantity, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (list_id, name) DO UPDATE SET quantity = EXCLUDED.quantity, unit = EXCLUDED.unit
		RETURNING item_id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, item.ListID, item.Name, item.Quantity, item.Unit).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Items lists the list's items by name
func (r *InventoryRepo) Items(ctx context.Context, listID int64) ([]domain.InventoryItem, error) {
	query := `
		SELECT item_id, list_id, name, quantity, unit, created_at
		FROM inventory_items
		WHERE list_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Unit, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ClearItems removes every item of a list
func (r *InventoryRepo) ClearItems(ctx context.Context, listID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE list_id = $1`, listID)
	return err
}

// Complete closes a list
func (r *InventoryRepo) Complete(ctx context.Context, listID, by int64) error {
	query := `
		UPDATE inventory_lists
		SET status = 'completed', completed_at = NOW(), completed_by = $1
		WHERE list_id = $2 AND status = 'active'
	`
	return expectOne(r.db.ExecContext(ctx, query, by, listID))
}

// PurgeCompleted deletes completed lists older than retentionDays. Items go with
// them through the foreign key cascade.
func (r *InventoryRepo) PurgeCompleted(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM inventory_lists
		WHERE status = 'completed' AND completed_at < NOW() - INTERVAL '1 day' * $1
	`
	res, err := r.db.ExecContext(ctx, query, retentionDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
