package service

import (
	"testing"

	"baristabot/internal/domain"
	"baristabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReportService() (*ReportService, *testutil.Mocks) {
	mocks := testutil.NewMocks()
	return NewReportService(mocks.Reports, &testutil.TxRunner{Mocks: mocks}, testutil.NewTestLogger()), mocks
}

func TestReportService_Open(t *testing.T) {
	svc, mocks := newReportService()
	opener := testutil.NewTestUser(1, domain.RoleBarista)
	mocks.Reports.On("DeactivateAll", mock.Anything).Return(nil)
	mocks.Reports.On("Create", mock.Anything, mock.MatchedBy(func(r domain.ShiftReport) bool {
		return r.CashMorning == 5000 && r.CashRest == 5000 && r.IsActive
	})).Return(int64(3), nil)

	rep, err := svc.Open(t.Context(), *opener, 5000)

	require.NoError(t, err)
	assert.Equal(t, int64(3), rep.ID)
	mocks.AssertExpectations(t)
}

func TestReportService_Open_NegativeCash(t *testing.T) {
	svc, mocks := newReportService()

	_, err := svc.Open(t.Context(), domain.User{UserID: 1}, -1)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mocks.Reports.AssertNotCalled(t, "DeactivateAll", mock.Anything)
}

func TestReportService_Reconciliation(t *testing.T) {
	svc, mocks := newReportService()
	report := testutil.NewTestReport(3, 5000)
	mocks.Reports.On("GetForUpdate", mock.Anything, int64(3)).Return(report, nil)
	mocks.Reports.On("AddExpense", mock.Anything, domain.Expense{ReportID: 3, Amount: 700, Description: "молоко"}).Return(int64(1), nil)
	mocks.Reports.On("Update", mock.Anything, mock.Anything).Return(nil)

	rep, err := svc.AddExpense(t.Context(), 3, 700, " молоко ")
	require.NoError(t, err)
	assert.Equal(t, int64(4300), rep.CashRest)

	rep, err = svc.SetCashIn(t.Context(), 3, 2000)
	require.NoError(t, err)
	assert.Equal(t, int64(6300), rep.CashRest)

	rep, err = svc.SetOnline(t.Context(), 3, 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(6300), rep.CashRest, "online money is not in the till")

	closed, rec, err := svc.Close(t.Context(), 3)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.Equal(t, domain.Reconciliation{
		Morning:  5000,
		CashIn:   2000,
		Expenses: 700,
		Online:   1500,
		Rest:     6300,
		Total:    7800,
	}, rec)
}

func TestReportService_MutateClosedReport(t *testing.T) {
	svc, mocks := newReportService()
	report := testutil.NewTestReport(3, 5000)
	report.IsActive = false
	mocks.Reports.On("GetForUpdate", mock.Anything, int64(3)).Return(report, nil)

	_, err := svc.SetCashIn(t.Context(), 3, 100)

	assert.ErrorIs(t, err, domain.ErrNoActiveReport)
	mocks.Reports.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReportService_Active(t *testing.T) {
	svc, mocks := newReportService()
	mocks.Reports.On("Active", mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := svc.Active(t.Context())

	assert.ErrorIs(t, err, domain.ErrNoActiveReport)
}
