package testutil

import (
	"time"

	"baristabot/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, role domain.Role) *domain.User {
	return &domain.User{
		UserID:    userID,
		Username:  "user",
		FirstName: "Test",
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// NewTestCustomer creates an active test customer with the given purchase total
func NewTestCustomer(id int64, total string) *domain.Customer {
	return &domain.Customer{
		ID:               id,
		Name:             "Анна",
		Phone:            "+79001234567",
		CardNumber:       "LBC-1111-2222-3333",
		RegisteredAt:     time.Now(),
		IsActive:         true,
		TotalPurchases:   decimal.RequireFromString(total),
		TotalBonuses:     decimal.Zero,
		AvailableBonuses: decimal.Zero,
	}
}

// NewTestReport creates an active shift report
func NewTestReport(id, cashMorning int64) *domain.ShiftReport {
	return &domain.ShiftReport{
		ID:          id,
		UserID:      1,
		CashMorning: cashMorning,
		CashRest:    cashMorning,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}
