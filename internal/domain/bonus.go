package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBonusPercent applies when a customer has no usable program
var DefaultBonusPercent = decimal.NewFromInt(3)

// BonusProgram is a loyalty program with a base accrual percent
type BonusProgram struct {
	ID                int64
	Name              string
	Description       string
	BasePercent       decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	IsActive          bool
	CreatedBy         int64
	CreatedAt         time.Time
}

// BonusLevel raises the accrual percent once total purchases reach a threshold
type BonusLevel struct {
	ID           int64
	ProgramID    int64
	Name         string
	MinPurchases decimal.Decimal
	Percent      decimal.Decimal
	Description  string
}

// BonusPercent picks the highest level reached by total, falling back to the
// program base percent and then to DefaultBonusPercent.
func BonusPercent(total decimal.Decimal, levels []BonusLevel, program *BonusProgram) decimal.Decimal {
	sorted := make([]BonusLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPurchases.GreaterThan(sorted[j].MinPurchases)
	})

	for _, level := range sorted {
		if total.GreaterThanOrEqual(level.MinPurchases) {
			return level.Percent
		}
	}

	if program != nil && program.IsActive {
		return program.BasePercent
	}
	return DefaultBonusPercent
}

// BonusAmount returns the bonus earned for amount at percent, rounded to kopecks
func BonusAmount(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}
