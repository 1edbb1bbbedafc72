package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"go.uber.org/zap"
)

// ReportService manages the shop's shift cash report
type ReportService struct {
	reports repository.ReportRepository
	tx      repository.TxRunner
	logger  *zap.Logger
}

// NewReportService creates a new shift report service
func NewReportService(reports repository.ReportRepository, tx repository.TxRunner, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		tx:      tx,
		logger:  logger,
	}
}

// Open starts a new shift report. Any previously active report is closed.
func (s *ReportService) Open(ctx context.Context, opener domain.User, cashMorning int64) (*domain.ShiftReport, error) {
	if cashMorning < 0 {
		return nil, fmt.Errorf("%w: opening cash must not be negative", domain.ErrInvalidInput)
	}

	rep := domain.ShiftReport{
		UserID:      opener.UserID,
		Username:    opener.Username,
		Phone:       opener.Phone,
		CashMorning: cashMorning,
		CashRest:    cashMorning,
		IsActive:    true,
	}
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Reports.DeactivateAll(ctx); err != nil {
			return err
		}
		id, err := repos.Reports.Create(ctx, rep)
		if err != nil {
			return err
		}
		rep.ID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}

	s.logger.Info("Shift report opened",
		zap.Int64("report_id", rep.ID),
		zap.Int64("user_id", opener.UserID),
		zap.Int64("cash_morning", cashMorning),
	)
	return &rep, nil
}

// Active returns the open report or domain.ErrNoActiveReport
func (s *ReportService) Active(ctx context.Context) (*domain.ShiftReport, error) {
	rep, err := s.reports.Active(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoActiveReport
	}
	return rep, err
}

// AddExpense records a cash expense against the report
func (s *ReportService) AddExpense(ctx context.Context, reportID, amount int64, description string) (*domain.ShiftReport, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: expense must be positive", domain.ErrInvalidInput)
	}
	description = strings.TrimSpace(description)

	rep, err := s.mutate(ctx, reportID, func(repos repository.Repos, r *domain.ShiftReport) error {
		if _, err := repos.Reports.AddExpense(ctx, domain.Expense{
			ReportID:    r.ID,
			Amount:      amount,
			Description: description,
		}); err != nil {
			return err
		}
		r.CashWasted += amount
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	s.logger.Info("Expense added", zap.Int64("report_id", reportID), zap.Int64("amount", amount))
	return rep, nil
}

// SetCashIn stores the cash deposited into the till
func (s *ReportService) SetCashIn(ctx context.Context, reportID, amount int64) (*domain.ShiftReport, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}
	rep, err := s.mutate(ctx, reportID, func(_ repository.Repos, r *domain.ShiftReport) error {
		r.CashIn = amount
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set cash in: %w", err)
	}
	return rep, nil
}

// SetOnline stores the card and online payments of the shift
func (s *ReportService) SetOnline(ctx context.Context, reportID, amount int64) (*domain.ShiftReport, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}
	rep, err := s.mutate(ctx, reportID, func(_ repository.Repos, r *domain.ShiftReport) error {
		r.CashOnline = amount
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set online: %w", err)
	}
	return rep, nil
}

// Close finishes the shift and returns the final reconciliation
func (s *ReportService) Close(ctx context.Context, reportID int64) (*domain.ShiftReport, domain.Reconciliation, error) {
	rep, err := s.mutate(ctx, reportID, func(_ repository.Repos, r *domain.ShiftReport) error {
		r.IsActive = false
		return nil
	})
	if err != nil {
		return nil, domain.Reconciliation{}, fmt.Errorf("close report: %w", err)
	}

	rec := rep.Reconcile()
	s.logger.Info("Shift report closed",
		zap.Int64("report_id", reportID),
		zap.Int64("rest", rec.Rest),
		zap.Int64("total", rec.Total),
	)
	return rep, rec, nil
}

// mutate locks an open report, applies fn and stores the recomputed rest
func (s *ReportService) mutate(ctx context.Context, reportID int64, fn func(repository.Repos, *domain.ShiftReport) error) (*domain.ShiftReport, error) {
	var out *domain.ShiftReport
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		rep, err := repos.Reports.GetForUpdate(ctx, reportID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoActiveReport
		}
		if err != nil {
			return err
		}
		if !rep.IsActive {
			return domain.ErrNoActiveReport
		}
		if err := fn(repos, rep); err != nil {
			return err
		}
		rep.CashRest = rep.Reconcile().Rest
		if err := repos.Reports.Update(ctx, *rep); err != nil {
			return err
		}
		out = rep
		return nil
	})
	return out, err
}

// Expenses returns the expenses of a report
func (s *ReportService) Expenses(ctx context.Context, reportID int64) ([]domain.Expense, error) {
	return s.reports.Expenses(ctx, reportID)
}

// History returns the latest reports, newest first
func (s *ReportService) History(ctx context.Context, limit int) ([]domain.ShiftReport, error) {
	return s.reports.History(ctx, limit)
}
