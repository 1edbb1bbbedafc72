package service

import (
	"errors"
	"testing"

	"baristabot/internal/domain"
	"baristabot/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decimalEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func TestPurchaseService_Record(t *testing.T) {
	programID := int64(1)
	program := &domain.BonusProgram{ID: programID, BasePercent: decimal.NewFromInt(2), IsActive: true}
	levels := []domain.BonusLevel{
		{ID: 1, ProgramID: programID, MinPurchases: decimal.NewFromInt(5000), Percent: decimal.NewFromInt(5)},
		{ID: 2, ProgramID: programID, MinPurchases: decimal.NewFromInt(10000), Percent: decimal.NewFromInt(7)},
	}

	tests := []struct {
		name        string
		total       string
		withProgram bool
		amount      string
		wantPercent string
		wantBonus   string
	}{
		{name: "level reached by current total", total: "6000", withProgram: true, amount: "200", wantPercent: "5", wantBonus: "10"},
		{name: "purchase crossing threshold uses old total", total: "9900", withProgram: true, amount: "500", wantPercent: "5", wantBonus: "25"},
		{name: "below every level uses base percent", total: "100", withProgram: true, amount: "150", wantPercent: "2", wantBonus: "3"},
		{name: "no program uses default", total: "0", withProgram: false, amount: "99.90", wantPercent: "3", wantBonus: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := testutil.NewMocks()
			tx := &testutil.TxRunner{Mocks: mocks}
			svc := NewPurchaseService(mocks.Customers, mocks.Bonuses, tx, testutil.NewTestLogger())

			customer := testutil.NewTestCustomer(42, tt.total)
			if tt.withProgram {
				customer.BonusProgramID = &programID
				mocks.Bonuses.On("Program", mock.Anything, programID).Return(program, nil)
				mocks.Bonuses.On("Levels", mock.Anything, programID).Return(levels, nil)
			}
			mocks.Customers.On("GetForUpdate", mock.Anything, int64(42)).Return(customer, nil)
			mocks.Customers.On("AddPurchase", mock.Anything, mock.Anything).Return(int64(77), nil)
			mocks.Customers.On("AddTotals", mock.Anything, int64(42), decimalEq(tt.amount), decimalEq(tt.wantBonus)).Return(nil)
			mocks.Customers.On("AddBonusTransaction", mock.Anything, int64(42), int64(77), decimalEq(tt.wantBonus), domain.BonusEarned, mock.Anything).Return(nil)

			res, err := svc.Record(t.Context(), PurchaseInput{
				CustomerID: 42,
				Amount:     decimal.RequireFromString(tt.amount),
				OperatorID: 9,
			})

			require.NoError(t, err)
			assert.True(t, res.Accrual.Percent.Equal(decimal.RequireFromString(tt.wantPercent)), "percent %s", res.Accrual.Percent)
			assert.True(t, res.Accrual.Bonus.Equal(decimal.RequireFromString(tt.wantBonus)), "bonus %s", res.Accrual.Bonus)
			assert.Equal(t, int64(77), res.Purchase.ID)
			assert.True(t, res.Customer.TotalPurchases.Equal(decimal.RequireFromString(tt.total).Add(decimal.RequireFromString(tt.amount))))
			assert.Equal(t, 1, tx.Runs)
			mocks.AssertExpectations(t)
		})
	}
}

func TestPurchaseService_Record_Rejections(t *testing.T) {
	t.Run("non-positive amount", func(t *testing.T) {
		mocks := testutil.NewMocks()
		tx := &testutil.TxRunner{Mocks: mocks}
		svc := NewPurchaseService(mocks.Customers, mocks.Bonuses, tx, testutil.NewTestLogger())

		_, err := svc.Record(t.Context(), PurchaseInput{CustomerID: 1, Amount: decimal.Zero, OperatorID: 1})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 0, tx.Runs)
	})

	t.Run("inactive customer", func(t *testing.T) {
		mocks := testutil.NewMocks()
		tx := &testutil.TxRunner{Mocks: mocks}
		svc := NewPurchaseService(mocks.Customers, mocks.Bonuses, tx, testutil.NewTestLogger())
		customer := testutil.NewTestCustomer(1, "0")
		customer.IsActive = false
		mocks.Customers.On("GetForUpdate", mock.Anything, int64(1)).Return(customer, nil)

		_, err := svc.Record(t.Context(), PurchaseInput{CustomerID: 1, Amount: decimal.NewFromInt(10), OperatorID: 1})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		mocks.Customers.AssertNotCalled(t, "AddPurchase", mock.Anything, mock.Anything)
	})

	t.Run("ledger failure surfaces", func(t *testing.T) {
		mocks := testutil.NewMocks()
		tx := &testutil.TxRunner{Mocks: mocks}
		svc := NewPurchaseService(mocks.Customers, mocks.Bonuses, tx, testutil.NewTestLogger())
		mocks.Customers.On("GetForUpdate", mock.Anything, int64(1)).Return(testutil.NewTestCustomer(1, "0"), nil)
		mocks.Customers.On("AddPurchase", mock.Anything, mock.Anything).Return(int64(0), errors.New("insert failed"))

		_, err := svc.Record(t.Context(), PurchaseInput{CustomerID: 1, Amount: decimal.NewFromInt(10), OperatorID: 1})

		assert.Error(t, err)
		mocks.Customers.AssertNotCalled(t, "AddTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPurchaseService_Preview(t *testing.T) {
	mocks := testutil.NewMocks()
	svc := NewPurchaseService(mocks.Customers, mocks.Bonuses, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger())
	mocks.Customers.On("Get", mock.Anything, int64(3)).Return(testutil.NewTestCustomer(3, "0"), nil)

	acc, err := svc.Preview(t.Context(), 3, decimal.NewFromInt(1000))

	require.NoError(t, err)
	assert.True(t, acc.Bonus.Equal(decimal.NewFromInt(30)))
}
