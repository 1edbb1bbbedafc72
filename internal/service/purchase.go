package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseInput is the payload for recording a purchase
type PurchaseInput struct {
	CustomerID  int64           `validate:"gt=0"`
	Amount      decimal.Decimal `validate:"gt=0"`
	Description string          `validate:"max=500"`
	OperatorID  int64           `validate:"gt=0"`
}

// Accrual is the bonus a purchase would earn
type Accrual struct {
	Percent decimal.Decimal
	Bonus   decimal.Decimal
}

// PurchaseResult describes a recorded purchase
type PurchaseResult struct {
	Purchase domain.Purchase
	Accrual  Accrual
	Customer domain.Customer
}

// PurchaseService records purchases and accrues bonuses
type PurchaseService struct {
	customers repository.CustomerRepository
	bonuses   repository.BonusRepository
	tx        repository.TxRunner
	logger    *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(customers repository.CustomerRepository, bonuses repository.BonusRepository, tx repository.TxRunner, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		customers: customers,
		bonuses:   bonuses,
		tx:        tx,
		logger:    logger,
	}
}

// Preview computes the accrual for amount without writing anything
func (s *PurchaseService) Preview(ctx context.Context, customerID int64, amount decimal.Decimal) (Accrual, error) {
	c, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Accrual{}, err
	}
	return accrue(ctx, s.bonuses, c, amount)
}

// Record writes the purchase, customer totals and the bonus ledger entry in one transaction
func (s *PurchaseService) Record(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var result PurchaseResult
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		c, err := repos.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !c.IsActive {
			return domain.ErrNotFound
		}

		acc, err := accrue(ctx, repos.Bonuses, c, in.Amount)
		if err != nil {
			return err
		}

		p := domain.Purchase{
			CustomerID:  c.ID,
			Amount:      in.Amount,
			BonusEarned: acc.Bonus,
			Description: in.Description,
			OperatorID:  in.OperatorID,
		}
		p.ID, err = repos.Customers.AddPurchase(ctx, p)
		if err != nil {
			return err
		}
		if err := repos.Customers.AddTotals(ctx, c.ID, in.Amount, acc.Bonus); err != nil {
			return err
		}
		if acc.Bonus.IsPositive() {
			desc := fmt.Sprintf("Начисление %s%% за покупку #%d", acc.Percent.String(), p.ID)
			if err := repos.Customers.AddBonusTransaction(ctx, c.ID, p.ID, acc.Bonus, domain.BonusEarned, desc); err != nil {
				return err
			}
		}

		c.TotalPurchases = c.TotalPurchases.Add(in.Amount)
		c.TotalBonuses = c.TotalBonuses.Add(acc.Bonus)
		c.AvailableBonuses = c.AvailableBonuses.Add(acc.Bonus)
		result = PurchaseResult{Purchase: p, Accrual: acc, Customer: *c}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	s.logger.Info("Purchase recorded",
		zap.Int64("customer_id", in.CustomerID),
		zap.Int64("purchase_id", result.Purchase.ID),
		zap.String("amount", in.Amount.String()),
		zap.String("bonus", result.Accrual.Bonus.String()),
	)
	return &result, nil
}

// accrue derives the percent from the customer's totals before this purchase
func accrue(ctx context.Context, bonuses repository.BonusRepository, c *domain.Customer, amount decimal.Decimal) (Accrual, error) {
	var (
		program *domain.BonusProgram
		levels  []domain.BonusLevel
	)
	if c.BonusProgramID != nil {
		p, err := bonuses.Program(ctx, *c.BonusProgramID)
		switch {
		case err == nil:
			program = p
			levels, err = bonuses.Levels(ctx, p.ID)
			if err != nil {
				return Accrual{}, err
			}
		case !errors.Is(err, domain.ErrNotFound):
			return Accrual{}, err
		}
	}

	pct := domain.BonusPercent(c.TotalPurchases, levels, program)
	return Accrual{Percent: pct, Bonus: domain.BonusAmount(amount, pct)}, nil
}
