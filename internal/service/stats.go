package service

import (
	"context"
	"errors"
	"fmt"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"go.uber.org/zap"
)

// InventoryRetentionDays is how long completed inventory lists are kept
const InventoryRetentionDays = 90

// SystemStats is the administrator's overview
type SystemStats struct {
	Users           int
	UsersByRole     map[domain.Role]int
	Customers       int
	ActiveCustomers int
	ActiveReport    *domain.ShiftReport
}

// StatsService handles statistics and cleanup
type StatsService struct {
	users     repository.UserRepository
	customers repository.CustomerRepository
	reports   repository.ReportRepository
	inventory repository.InventoryRepository
	logger    *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	users repository.UserRepository,
	customers repository.CustomerRepository,
	reports repository.ReportRepository,
	inventory repository.InventoryRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		users:     users,
		customers: customers,
		reports:   reports,
		inventory: inventory,
		logger:    logger,
	}
}

// Summary collects counts across accounts, customers and the open shift
func (s *StatsService) Summary(ctx context.Context) (SystemStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return SystemStats{}, fmt.Errorf("list users: %w", err)
	}

	stats := SystemStats{
		Users:       len(users),
		UsersByRole: make(map[domain.Role]int, len(domain.Roles())),
	}
	for _, u := range users {
		role, err := domain.ParseRole(string(u.Role))
		if err != nil {
			role = domain.RoleGuest
		}
		stats.UsersByRole[role]++
	}

	stats.Customers, stats.ActiveCustomers, err = s.customers.Counts(ctx)
	if err != nil {
		return SystemStats{}, fmt.Errorf("count customers: %w", err)
	}

	rep, err := s.reports.Active(ctx)
	switch {
	case err == nil:
		stats.ActiveReport = rep
	case !errors.Is(err, domain.ErrNotFound):
		return SystemStats{}, fmt.Errorf("load active report: %w", err)
	}
	return stats, nil
}

// CleanupOldData removes completed inventory lists past the retention period
func (s *StatsService) CleanupOldData(ctx context.Context) error {
	s.logger.Info("Starting cleanup of completed inventory lists", zap.Int("retention_days", InventoryRetentionDays))

	n, err := s.inventory.PurgeCompleted(ctx, InventoryRetentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup inventory lists", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("deleted", n))
	return nil
}
