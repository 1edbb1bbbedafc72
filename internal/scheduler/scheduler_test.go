package scheduler

import (
	"testing"
	"time"

	"baristabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCron_ScheduleReplacesKey(t *testing.T) {
	c := New(time.UTC, testutil.NewTestLogger())

	require.NoError(t, c.ScheduleRecurring("reminder:1", "0 10 * * 1", func() {}))
	require.NoError(t, c.ScheduleRecurring("reminder:1", "30 10 * * 1,3", func() {}))
	require.NoError(t, c.ScheduleRecurring("reminder:2", "0 9 * * 5", func() {}))

	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.cron.Entries(), 2, "replaced entry is removed from cron")
}

func TestCron_InvalidSpec(t *testing.T) {
	c := New(time.UTC, testutil.NewTestLogger())

	err := c.ScheduleRecurring("reminder:1", "61 25 * * 9", func() {})
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCron_InvalidSpecKeepsExistingJob(t *testing.T) {
	c := New(time.UTC, testutil.NewTestLogger())
	require.NoError(t, c.ScheduleRecurring("reminder:1", "0 10 * * 1", func() {}))

	assert.Error(t, c.ScheduleRecurring("reminder:1", "bogus", func() {}))
	assert.Equal(t, 1, c.Len())
}

func TestCron_Cancel(t *testing.T) {
	c := New(time.UTC, testutil.NewTestLogger())
	require.NoError(t, c.ScheduleRecurring("reminder:1", "0 10 * * 1", func() {}))

	c.Cancel("reminder:1")
	c.Cancel("reminder:unknown")

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.cron.Entries())
}

func TestCron_NextUsesLocation(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	c := New(moscow, testutil.NewTestLogger())
	require.NoError(t, c.ScheduleRecurring("reminder:1", "30 10 * * 1,3", func() {}))

	// Wednesday morning
	from := time.Date(2026, 10, 14, 9, 0, 0, 0, moscow)
	next, ok := c.Next("reminder:1", from)
	require.True(t, ok)
	assert.True(t, next.Equal(time.Date(2026, 10, 14, 10, 30, 0, 0, moscow)), "got %s", next)

	next, _ = c.Next("reminder:1", next)
	assert.True(t, next.Equal(time.Date(2026, 10, 19, 10, 30, 0, 0, moscow)), "then the following Monday, got %s", next)

	_, ok = c.Next("reminder:2", from)
	assert.False(t, ok)
}
