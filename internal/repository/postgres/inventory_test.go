package postgres

import (
	"context"
	"testing"

	"baristabot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepo_AddItemUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)
	qty := decimal.RequireFromString("2.5")

	mock.ExpectQuery("INSERT INTO inventory_items .* ON CONFLICT \\(list_id, name\\) DO UPDATE").
		WithArgs(int64(3), "Молоко", qty, "л").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(11))

	id, err := repo.AddItem(context.Background(), domain.InventoryItem{ListID: 3, Name: "Молоко", Quantity: qty, Unit: "л"})

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_PurgeCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryRepo(db)

	mock.ExpectExec("DELETE FROM inventory_lists WHERE status = 'completed' AND completed_at").
		WithArgs(90).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeCompleted(context.Background(), 90)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCustomerRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COUNT\\(\\*\\) FILTER \\(WHERE is_active\\) FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"total", "active"}).AddRow(12, 9))

	total, active, err := repo.Counts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, 9, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
