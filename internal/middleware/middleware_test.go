package middleware

import (
	"context"
	"errors"
	"testing"

	"baristabot/internal/dedup"
	"baristabot/internal/domain"
	"baristabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the handful of tele.Context methods middleware uses.
// Any other call panics through the nil embedded interface.
type fakeContext struct {
	tele.Context
	sender    *tele.User
	callback  *tele.Callback
	sent      []interface{}
	responded int
}

func (c *fakeContext) Sender() *tele.User       { return c.sender }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) Respond(_ ...*tele.CallbackResponse) error {
	c.responded++
	return nil
}

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) EnsureAccount(ctx context.Context, profile domain.User) domain.Role {
	return m.Called(profile).Get(0).(domain.Role)
}

type errChecker struct{}

func (errChecker) Claim(context.Context, string) (bool, error) {
	return false, errors.New("redis timeout")
}

func counting(calls *int) tele.HandlerFunc {
	return func(tele.Context) error {
		*calls++
		return nil
	}
}

func TestEnsureAccount(t *testing.T) {
	accounts := new(mockAccounts)
	accounts.On("EnsureAccount", domain.User{UserID: 7, Username: "anna", FirstName: "Анна"}).Return(domain.RoleGuest)

	calls := 0
	h := EnsureAccount(accounts, testutil.NewTestLogger())(counting(&calls))

	require.NoError(t, h(&fakeContext{sender: &tele.User{ID: 7, Username: "anna", FirstName: "Анна"}}))
	assert.Equal(t, 1, calls)
	accounts.AssertExpectations(t)
}

func TestEnsureAccount_SkipsBots(t *testing.T) {
	accounts := new(mockAccounts)
	calls := 0
	h := EnsureAccount(accounts, testutil.NewTestLogger())(counting(&calls))

	require.NoError(t, h(&fakeContext{sender: &tele.User{ID: 8, IsBot: true}}))
	assert.Equal(t, 0, calls)
	accounts.AssertNotCalled(t, "EnsureAccount", mock.Anything)
}

func TestDedupCallbacks(t *testing.T) {
	calls := 0
	h := DedupCallbacks(dedup.NewMemoryChecker(0), testutil.NewTestLogger())(counting(&calls))
	user := &tele.User{ID: 7}

	first := &fakeContext{sender: user, callback: &tele.Callback{ID: "cb-1"}}
	require.NoError(t, h(first))
	again := &fakeContext{sender: user, callback: &tele.Callback{ID: "cb-1"}}
	require.NoError(t, h(again))
	text := &fakeContext{sender: user}
	require.NoError(t, h(text))

	assert.Equal(t, 2, calls, "duplicate is dropped, plain messages pass")
	assert.Equal(t, 1, again.responded, "duplicate is still acknowledged")
}

func TestDedupCallbacks_CheckerFailureProcesses(t *testing.T) {
	calls := 0
	h := DedupCallbacks(errChecker{}, testutil.NewTestLogger())(counting(&calls))

	require.NoError(t, h(&fakeContext{sender: &tele.User{ID: 7}, callback: &tele.Callback{ID: "cb-1"}}))
	assert.Equal(t, 1, calls)
}

func TestRecover(t *testing.T) {
	h := Recover(testutil.NewTestLogger())(func(tele.Context) error {
		panic("boom")
	})

	c := &fakeContext{sender: &tele.User{ID: 7}}
	err := h(c)

	assert.ErrorContains(t, err, "handler panic: boom")
	assert.Len(t, c.sent, 1)
}

func TestRecover_PassesErrors(t *testing.T) {
	want := errors.New("plain")
	h := Recover(testutil.NewTestLogger())(func(tele.Context) error { return want })

	assert.ErrorIs(t, h(&fakeContext{}), want)
}
