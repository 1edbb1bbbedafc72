package service

import (
	"errors"
	"strings"
	"testing"

	"baristabot/internal/domain"
	"baristabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Register(t *testing.T) {
	defaultProgram := &domain.BonusProgram{ID: 1, Name: "Базовая", IsActive: true}

	tests := []struct {
		name      string
		input     RegistrationInput
		setup     func(m *testutil.Mocks)
		expectErr error
		wantErr   bool
	}{
		{
			name:  "registered with default program",
			input: RegistrationInput{Name: "Анна", Phone: "+79001234567"},
			setup: func(m *testutil.Mocks) {
				m.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(false, nil)
				m.Customers.On("CardExists", mock.Anything, mock.Anything).Return(true, nil).Once()
				m.Customers.On("CardExists", mock.Anything, mock.Anything).Return(false, nil).Once()
				m.Bonuses.On("DefaultProgram", mock.Anything).Return(defaultProgram, nil)
				m.Customers.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
					return c.BonusProgramID != nil && *c.BonusProgramID == 1 &&
						strings.HasPrefix(c.CardNumber, domain.CardNumberPrefix+"-") && c.IsActive
				})).Return(int64(8), nil)
			},
		},
		{
			name:  "no default program",
			input: RegistrationInput{Name: "Анна", Phone: "+79001234567"},
			setup: func(m *testutil.Mocks) {
				m.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(false, nil)
				m.Customers.On("CardExists", mock.Anything, mock.Anything).Return(false, nil)
				m.Bonuses.On("DefaultProgram", mock.Anything).Return(nil, domain.ErrNotFound)
				m.Customers.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
					return c.BonusProgramID == nil
				})).Return(int64(8), nil)
			},
		},
		{
			name:  "phone already used",
			input: RegistrationInput{Name: "Анна", Phone: "+79001234567"},
			setup: func(m *testutil.Mocks) {
				m.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(true, nil)
			},
			expectErr: domain.ErrDuplicate,
			wantErr:   true,
		},
		{
			name:      "malformed phone",
			input:     RegistrationInput{Name: "Анна", Phone: "12ab"},
			setup:     func(m *testutil.Mocks) {},
			expectErr: domain.ErrInvalidInput,
			wantErr:   true,
		},
		{
			name:  "card existence check fails",
			input: RegistrationInput{Name: "Анна", Phone: "+79001234567"},
			setup: func(m *testutil.Mocks) {
				m.Customers.On("PhoneExists", mock.Anything, "+79001234567").Return(false, nil)
				m.Customers.On("CardExists", mock.Anything, mock.Anything).Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := testutil.NewMocks()
			svc := NewCustomerService(mocks.Customers, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger())
			tt.setup(mocks)

			c, err := svc.Register(t.Context(), tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.expectErr != nil {
					assert.ErrorIs(t, err, tt.expectErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(8), c.ID)
			mocks.AssertExpectations(t)
		})
	}
}

func TestCustomerService_ActiveByCard(t *testing.T) {
	mocks := testutil.NewMocks()
	svc := NewCustomerService(mocks.Customers, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger())

	inactive := testutil.NewTestCustomer(2, "0")
	inactive.IsActive = false
	mocks.Customers.On("FindByCard", mock.Anything, "LBC-0000-0000-0002").Return(inactive, nil)
	mocks.Customers.On("FindByCard", mock.Anything, "LBC-1111-2222-3333").Return(testutil.NewTestCustomer(1, "0"), nil)

	_, err := svc.ActiveByCard(t.Context(), "lbc-0000-0000-0002")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := svc.ActiveByCard(t.Context(), " lbc-1111-2222-3333 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
}

func TestCustomerService_Search_NormalizesPhone(t *testing.T) {
	mocks := testutil.NewMocks()
	svc := NewCustomerService(mocks.Customers, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger())
	mocks.Customers.On("Search", mock.Anything, domain.SearchByPhone, "+79001234567").Return([]domain.Customer{}, nil)

	_, err := svc.Search(t.Context(), domain.SearchByPhone, "8 900 123 45 67")

	assert.NoError(t, err)
	mocks.AssertExpectations(t)
}
