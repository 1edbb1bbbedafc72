package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService manages per-user inventory counts
type InventoryService struct {
	inventory repository.InventoryRepository
	tx        repository.TxRunner
	logger    *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventory repository.InventoryRepository, tx repository.TxRunner, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		tx:        tx,
		logger:    logger,
	}
}

// AddItem records a counted item, opening a list when the user has none.
// Counting the same name again replaces the quantity.
func (s *InventoryService) AddItem(ctx context.Context, userID int64, name string, qty decimal.Decimal, unit string) (*domain.InventoryItem, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
	case !qty.IsPositive():
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	case !slices.Contains(domain.Units, unit):
		return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidInput, unit)
	}

	item := domain.InventoryItem{Name: name, Quantity: qty, Unit: unit}
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		list, err := repos.Inventory.ActiveList(ctx, userID)
		switch {
		case err == nil:
			item.ListID = list.ID
		case errors.Is(err, domain.ErrNotFound):
			item.ListID, err = repos.Inventory.CreateList(ctx, userID)
			if err != nil {
				return err
			}
		default:
			return err
		}
		item.ID, err = repos.Inventory.AddItem(ctx, item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add inventory item: %w", err)
	}

	s.logger.Info("Inventory item counted",
		zap.Int64("user_id", userID),
		zap.Int64("list_id", item.ListID),
		zap.String("name", item.Name),
	)
	return &item, nil
}

// Current returns the user's active list and its items. A user without a
// list gets a nil list and no items.
func (s *InventoryService) Current(ctx context.Context, userID int64) (*domain.InventoryList, []domain.InventoryItem, error) {
	list, err := s.inventory.ActiveList(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	items, err := s.inventory.Items(ctx, list.ID)
	if err != nil {
		return nil, nil, err
	}
	return list, items, nil
}

// Clear removes every item of the user's active list
func (s *InventoryService) Clear(ctx context.Context, userID int64) error {
	list, err := s.inventory.ActiveList(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.inventory.ClearItems(ctx, list.ID); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	s.logger.Info("Inventory cleared", zap.Int64("user_id", userID), zap.Int64("list_id", list.ID))
	return nil
}

// Confirm closes the user's active list and returns the counted items
func (s *InventoryService) Confirm(ctx context.Context, userID int64) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		list, err := repos.Inventory.ActiveList(ctx, userID)
		if err != nil {
			return err
		}
		items, err = repos.Inventory.Items(ctx, list.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrNothingToSelect
		}
		return repos.Inventory.Complete(ctx, list.ID, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm inventory: %w", err)
	}

	s.logger.Info("Inventory confirmed", zap.Int64("user_id", userID), zap.Int("items", len(items)))
	return items, nil
}
