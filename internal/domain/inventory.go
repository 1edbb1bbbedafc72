package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStatus is the lifecycle state of an inventory list
type InventoryStatus string

const (
	InventoryActive    InventoryStatus = "active"
	InventoryCompleted InventoryStatus = "completed"
)

// InventoryList is a user's working stock count
type InventoryList struct {
	ID          int64
	UserID      int64
	Name        string
	Status      InventoryStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	CompletedBy *int64
}

// InventoryItem is a counted position on a list
type InventoryItem struct {
	ID        int64
	ListID    int64
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	CreatedAt time.Time
}
