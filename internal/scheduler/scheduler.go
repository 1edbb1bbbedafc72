// Package scheduler runs keyed recurring jobs on top of robfig/cron.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron schedules jobs by key. Scheduling an existing key replaces its job.
type Cron struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	logger  *zap.Logger
}

// New creates a scheduler evaluating specs in loc. Panicking jobs are
// recovered and logged.
func New(loc *time.Location, logger *zap.Logger) *Cron {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{logger.Sugar()}
	return &Cron{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		entries: make(map[string]cron.EntryID),
		logger:  logger,
	}
}

// ScheduleRecurring registers fn under key with a five-field cron spec
func (c *Cron) ScheduleRecurring(key, spec string, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", key, spec, err)
	}
	if old, ok := c.entries[key]; ok {
		c.cron.Remove(old)
	}
	c.entries[key] = id

	c.logger.Debug("Job scheduled", zap.String("key", key), zap.String("spec", spec))
	return nil
}

// Cancel removes the job of key. Unknown keys are ignored.
func (c *Cron) Cancel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.entries[key]; ok {
		c.cron.Remove(id)
		delete(c.entries, key)
		c.logger.Debug("Job cancelled", zap.String("key", key))
	}
}

// Next returns the next activation of key after from
func (c *Cron) Next(key string, from time.Time) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return c.cron.Entry(id).Schedule.Next(from), true
}

// Len returns the number of scheduled jobs
func (c *Cron) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Start runs the scheduler in its own goroutine
func (c *Cron) Start() {
	c.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (c *Cron) Stop() {
	<-c.cron.Stop().Done()
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
