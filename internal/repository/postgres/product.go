package postgres

import (
	"context"
	"fmt"

	"baristabot/internal/domain"
)

// ProductRepo implements repository.ProductRepository
type ProductRepo struct {
	db querier
}

// NewProductRepo creates a new catalog repository
func NewProductRepo(db querier) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `product_id, category, name, unit, default_quantity, description, is_active, created_at, updated_at`

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Category, &p.Name, &p.Unit, &p.DefaultQuantity,
		&p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Create inserts a catalog product
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (int64, error) {
	query := `
		INSERT INTO product_catalog (category, name, unit, default_quantity, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, p.Category, p.Name, p.Unit, p.DefaultQuantity, p.Description).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Get returns an active product
func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product_catalog WHERE product_id = $1 AND is_active`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Categories returns distinct categories of active products
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM product_catalog WHERE is_active ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListByCategory returns active products of a category
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product_catalog
		WHERE is_active AND category = $1
		ORDER BY name
	`
	return r.queryProducts(ctx, query, category)
}

// Search matches active products by name substring
func (r *ProductRepo) Search(ctx context.Context, q string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product_catalog
		WHERE is_active AND name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT 20
	`
	return r.queryProducts(ctx, query, q)
}

// NameExists checks active products for a case-insensitive name match
func (r *ProductRepo) NameExists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM product_catalog WHERE is_active AND LOWER(name) = LOWER($1))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var productFieldColumns = map[domain.ProductField]string{
	domain.ProductFieldName:        "name",
	domain.ProductFieldCategory:    "category",
	domain.ProductFieldUnit:        "unit",
	domain.ProductFieldQuantity:    "default_quantity",
	domain.ProductFieldDescription: "description",
}

// UpdateField sets one catalog column
func (r *ProductRepo) UpdateField(ctx context.Context, id int64, field domain.ProductField, value any) error {
	column, ok := productFieldColumns[field]
	if !ok {
		return fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	query := `UPDATE product_catalog SET ` + column + ` = $1, updated_at = NOW() WHERE product_id = $2 AND is_active`
	return expectOne(r.db.ExecContext(ctx, query, value, id))
}

// Deactivate soft-deletes a product
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE product_catalog SET is_active = FALSE, updated_at = NOW() WHERE product_id = $1 AND is_active`
	return expectOne(r.db.ExecContext(ctx, query, id))
}

// RenameCategory moves every active product from one category to another
func (r *ProductRepo) RenameCategory(ctx context.Context, from, to string) (int64, error) {
	query := `UPDATE product_catalog SET category = $1, updated_at = NOW() WHERE category = $2 AND is_active`
	res, err := r.db.ExecContext(ctx, query, to, from)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
