package service

import (
	"testing"

	"baristabot/internal/domain"
	"baristabot/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Add(t *testing.T) {
	valid := ProductInput{
		Category:        "Молочка",
		Name:            "Молоко 3.2%",
		Unit:            "л",
		DefaultQuantity: decimal.NewFromInt(12),
	}

	tests := []struct {
		name      string
		input     ProductInput
		exists    bool
		expectErr error
	}{
		{name: "valid product", input: valid},
		{name: "duplicate name", input: valid, exists: true, expectErr: domain.ErrDuplicate},
		{
			name: "unknown unit",
			input: func() ProductInput {
				in := valid
				in.Unit = "ящик"
				return in
			}(),
			expectErr: domain.ErrInvalidInput,
		},
		{
			name: "zero quantity",
			input: func() ProductInput {
				in := valid
				in.DefaultQuantity = decimal.Zero
				return in
			}(),
			expectErr: domain.ErrInvalidInput,
		},
		{
			name: "short name",
			input: func() ProductInput {
				in := valid
				in.Name = "М"
				return in
			}(),
			expectErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := testutil.NewMocks()
			svc := NewCatalogService(mocks.Products, testutil.NewTestLogger())
			mocks.Products.On("NameExists", mock.Anything, tt.input.Name).Return(tt.exists, nil).Maybe()
			mocks.Products.On("Create", mock.Anything, mock.Anything).Return(int64(11), nil).Maybe()

			p, err := svc.Add(t.Context(), tt.input)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				mocks.Products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(11), p.ID)
			assert.True(t, p.IsActive)
		})
	}
}

func TestCatalogService_UpdateField(t *testing.T) {
	tests := []struct {
		name      string
		field     domain.ProductField
		raw       string
		setup     func(m *testutil.Mocks)
		expectErr error
	}{
		{
			name:  "quantity with comma",
			field: domain.ProductFieldQuantity,
			raw:   "2,5",
			setup: func(m *testutil.Mocks) {
				m.Products.On("UpdateField", mock.Anything, int64(1), domain.ProductFieldQuantity, decimalEq("2.5")).Return(nil)
			},
		},
		{
			name:      "negative quantity",
			field:     domain.ProductFieldQuantity,
			raw:       "-1",
			setup:     func(m *testutil.Mocks) {},
			expectErr: domain.ErrInvalidInput,
		},
		{
			name:  "taken name",
			field: domain.ProductFieldName,
			raw:   "Сахар",
			setup: func(m *testutil.Mocks) {
				m.Products.On("NameExists", mock.Anything, "Сахар").Return(true, nil)
			},
			expectErr: domain.ErrDuplicate,
		},
		{
			name:  "unit",
			field: domain.ProductFieldUnit,
			raw:   "кг",
			setup: func(m *testutil.Mocks) {
				m.Products.On("UpdateField", mock.Anything, int64(1), domain.ProductFieldUnit, "кг").Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := testutil.NewMocks()
			svc := NewCatalogService(mocks.Products, testutil.NewTestLogger())
			tt.setup(mocks)

			err := svc.UpdateField(t.Context(), 1, tt.field, tt.raw)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}
			mocks.AssertExpectations(t)
		})
	}
}

func TestCatalogService_RenameCategory(t *testing.T) {
	mocks := testutil.NewMocks()
	svc := NewCatalogService(mocks.Products, testutil.NewTestLogger())

	_, err := svc.RenameCategory(t.Context(), "Сиропы", "Сиропы")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mocks.Products.On("RenameCategory", mock.Anything, "Сиропы", "Топпинги").Return(int64(4), nil)
	n, err := svc.RenameCategory(t.Context(), "Сиропы", " Топпинги ")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
