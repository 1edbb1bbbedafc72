package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry used to build inventory lists
type Product struct {
	ID              int64
	Category        string
	Name            string
	Unit            string
	DefaultQuantity decimal.Decimal
	Description     string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductField is an editable catalog field
type ProductField string

const (
	ProductFieldName        ProductField = "name"
	ProductFieldCategory    ProductField = "category"
	ProductFieldUnit        ProductField = "unit"
	ProductFieldQuantity    ProductField = "default_quantity"
	ProductFieldDescription ProductField = "description"
)

// ProductFields lists editable fields in prompt order
func ProductFields() []ProductField {
	return []ProductField{
		ProductFieldName, ProductFieldCategory, ProductFieldUnit,
		ProductFieldQuantity, ProductFieldDescription,
	}
}

// Label returns user-facing field name
func (f ProductField) Label() string {
	switch f {
	case ProductFieldName:
		return "Название"
	case ProductFieldCategory:
		return "Категория"
	case ProductFieldUnit:
		return "Единица измерения"
	case ProductFieldQuantity:
		return "Стандартное количество"
	case ProductFieldDescription:
		return "Описание"
	default:
		return string(f)
	}
}

// Units offered when adding a product
var Units = []string{"шт", "кг", "л", "гр", "мл"}
