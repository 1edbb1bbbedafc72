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

func newInventoryService() (*InventoryService, *testutil.Mocks) {
	mocks := testutil.NewMocks()
	return NewInventoryService(mocks.Inventory, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger()), mocks
}

func TestInventoryService_AddItem(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *testutil.Mocks)
		wantList int64
	}{
		{
			name: "existing list",
			setup: func(m *testutil.Mocks) {
				m.Inventory.On("ActiveList", mock.Anything, int64(1)).Return(&domain.InventoryList{ID: 4}, nil)
			},
			wantList: 4,
		},
		{
			name: "opens a list",
			setup: func(m *testutil.Mocks) {
				m.Inventory.On("ActiveList", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
				m.Inventory.On("CreateList", mock.Anything, int64(1)).Return(int64(9), nil)
			},
			wantList: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newInventoryService()
			tt.setup(mocks)
			mocks.Inventory.On("AddItem", mock.Anything, mock.MatchedBy(func(it domain.InventoryItem) bool {
				return it.ListID == tt.wantList && it.Name == "Молоко"
			})).Return(int64(20), nil)

			item, err := svc.AddItem(t.Context(), 1, " Молоко ", decimal.NewFromInt(3), "л")

			require.NoError(t, err)
			assert.Equal(t, tt.wantList, item.ListID)
			mocks.AssertExpectations(t)
		})
	}
}

func TestInventoryService_AddItem_Invalid(t *testing.T) {
	svc, _ := newInventoryService()

	_, err := svc.AddItem(t.Context(), 1, "Молоко", decimal.Zero, "л")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddItem(t.Context(), 1, "Молоко", decimal.NewFromInt(1), "бочка")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventoryService_Current_NoList(t *testing.T) {
	svc, mocks := newInventoryService()
	mocks.Inventory.On("ActiveList", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)

	list, items, err := svc.Current(t.Context(), 1)

	assert.NoError(t, err)
	assert.Nil(t, list)
	assert.Empty(t, items)
}

func TestInventoryService_Confirm(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		svc, mocks := newInventoryService()
		mocks.Inventory.On("ActiveList", mock.Anything, int64(1)).Return(&domain.InventoryList{ID: 4}, nil)
		mocks.Inventory.On("Items", mock.Anything, int64(4)).Return([]domain.InventoryItem{}, nil)

		_, err := svc.Confirm(t.Context(), 1)

		assert.ErrorIs(t, err, domain.ErrNothingToSelect)
		mocks.Inventory.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completes list", func(t *testing.T) {
		svc, mocks := newInventoryService()
		mocks.Inventory.On("ActiveList", mock.Anything, int64(1)).Return(&domain.InventoryList{ID: 4}, nil)
		mocks.Inventory.On("Items", mock.Anything, int64(4)).Return([]domain.InventoryItem{{ID: 1, Name: "Сахар"}}, nil)
		mocks.Inventory.On("Complete", mock.Anything, int64(4), int64(1)).Return(nil)

		items, err := svc.Confirm(t.Context(), 1)

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}
