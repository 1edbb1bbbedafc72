package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput is the payload for a new catalog entry
type ProductInput struct {
	Category        string          `validate:"required,max=100"`
	Name            string          `validate:"required,min=2,max=100"`
	Unit            string          `validate:"required,oneof=шт кг л гр мл"`
	DefaultQuantity decimal.Decimal `validate:"gt=0"`
	Description     string          `validate:"max=500"`
}

// CatalogService handles product catalog business logic
type CatalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   logger,
	}
}

// Add creates a catalog entry. Names are unique among active products.
func (s *CatalogService) Add(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	exists, err := s.products.NameExists(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	p := domain.Product{
		Category:        in.Category,
		Name:            in.Name,
		Unit:            in.Unit,
		DefaultQuantity: in.DefaultQuantity,
		Description:     in.Description,
		IsActive:        true,
	}
	id, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	p.ID = id

	s.logger.Info("Product added",
		zap.Int64("product_id", id),
		zap.String("name", p.Name),
		zap.String("category", p.Category),
	)
	return &p, nil
}

// NameTaken reports whether an active product already uses name
func (s *CatalogService) NameTaken(ctx context.Context, name string) (bool, error) {
	return s.products.NameExists(ctx, strings.TrimSpace(name))
}

// Get returns one product
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

// Categories returns the distinct categories of active products
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// ByCategory returns active products of one category
func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, category)
}

// Search matches active products by name
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return s.products.Search(ctx, strings.TrimSpace(query))
}

// UpdateField parses raw for the given field and stores it
func (s *CatalogService) UpdateField(ctx context.Context, id int64, field domain.ProductField, raw string) error {
	value, err := s.parseField(ctx, field, raw)
	if err != nil {
		return err
	}
	if err := s.products.UpdateField(ctx, id, field, value); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	s.logger.Info("Product updated", zap.Int64("product_id", id), zap.String("field", string(field)))
	return nil
}

func (s *CatalogService) parseField(ctx context.Context, field domain.ProductField, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch field {
	case domain.ProductFieldName:
		if n := len([]rune(raw)); n < 2 || n > 100 {
			return nil, fmt.Errorf("%w: name must be 2 to 100 characters", domain.ErrInvalidInput)
		}
		taken, err := s.products.NameExists(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("check product name: %w", err)
		}
		if taken {
			return nil, domain.ErrDuplicate
		}
		return raw, nil
	case domain.ProductFieldCategory:
		if raw == "" {
			return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
		}
		return raw, nil
	case domain.ProductFieldUnit:
		if !slices.Contains(domain.Units, raw) {
			return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidInput, raw)
		}
		return raw, nil
	case domain.ProductFieldQuantity:
		q, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil || !q.IsPositive() {
			return nil, fmt.Errorf("%w: quantity must be a positive number", domain.ErrInvalidInput)
		}
		return q, nil
	case domain.ProductFieldDescription:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidInput, field)
	}
}

// Delete hides a product from the catalog
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// RenameCategory moves every active product from one category to another
func (s *CatalogService) RenameCategory(ctx context.Context, from, to string) (int64, error) {
	to = strings.TrimSpace(to)
	if to == "" || to == from {
		return 0, fmt.Errorf("%w: new category name must differ", domain.ErrInvalidInput)
	}
	n, err := s.products.RenameCategory(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	s.logger.Info("Category renamed",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("products", n),
	)
	return n, nil
}
