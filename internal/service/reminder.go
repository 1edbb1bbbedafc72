package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"baristabot/internal/chat"
	"baristabot/internal/domain"
	"baristabot/internal/metrics"
	"baristabot/internal/repository"

	"go.uber.org/zap"
)

const notifyTimeout = 15 * time.Second

// Scheduler runs recurring jobs keyed by a stable name
type Scheduler interface {
	ScheduleRecurring(key, spec string, fn func()) error
	Cancel(key string)
	Next(key string, from time.Time) (time.Time, bool)
	Len() int
}

// ReminderInput is the payload collected by the reminder wizard
type ReminderInput struct {
	UserID     int64
	ChatID     int64
	Days       []int `validate:"required,min=1,dive,gte=1,lte=7"`
	Hour       int   `validate:"gte=0,lte=23"`
	Minute     int   `validate:"gte=0,lte=59"`
	Type       domain.ReminderType
	CustomText string `validate:"max=500"`
}

// ReminderService stores reminders and keeps the scheduler in sync
type ReminderService struct {
	reminders repository.ReminderRepository
	scheduler Scheduler
	notifier  chat.Notifier
	logger    *zap.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(reminders repository.ReminderRepository, scheduler Scheduler, notifier chat.Notifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		scheduler: scheduler,
		notifier:  notifier,
		logger:    logger,
	}
}

// Setup replaces the user's reminder and schedules it
func (s *ReminderService) Setup(ctx context.Context, in ReminderInput) (*domain.Reminder, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	switch in.Type {
	case domain.ReminderCheckStock, domain.ReminderStartInventory:
		in.CustomText = ""
	case domain.ReminderCustom:
		in.CustomText = strings.TrimSpace(in.CustomText)
		if in.CustomText == "" {
			return nil, fmt.Errorf("%w: custom reminder needs a text", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown reminder type %q", domain.ErrInvalidInput, in.Type)
	}

	rem := domain.Reminder{
		UserID:     in.UserID,
		ChatID:     in.ChatID,
		Days:       in.Days,
		Hour:       in.Hour,
		Minute:     in.Minute,
		Type:       in.Type,
		CustomText: in.CustomText,
		IsActive:   true,
	}
	id, err := s.reminders.Upsert(ctx, rem)
	if err != nil {
		return nil, fmt.Errorf("save reminder: %w", err)
	}
	rem.ID = id

	if err := s.schedule(rem); err != nil {
		return nil, err
	}

	s.logger.Info("Reminder configured",
		zap.Int64("user_id", rem.UserID),
		zap.String("spec", rem.CronSpec()),
		zap.String("type", string(rem.Type)),
	)
	return &rem, nil
}

// Get returns the user's reminder
func (s *ReminderService) Get(ctx context.Context, userID int64) (*domain.Reminder, error) {
	return s.reminders.Get(ctx, userID)
}

// Enable reactivates a stored reminder
func (s *ReminderService) Enable(ctx context.Context, userID int64) (*domain.Reminder, error) {
	rem, err := s.reminders.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reminders.SetActive(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("enable reminder: %w", err)
	}
	rem.IsActive = true
	if err := s.schedule(*rem); err != nil {
		return nil, err
	}
	s.logger.Info("Reminder enabled", zap.Int64("user_id", userID))
	return rem, nil
}

// Disable switches the reminder off and removes its job
func (s *ReminderService) Disable(ctx context.Context, userID int64) error {
	if err := s.reminders.SetActive(ctx, userID, false); err != nil {
		return fmt.Errorf("disable reminder: %w", err)
	}
	s.scheduler.Cancel(domain.ReminderKey(userID))
	s.logger.Info("Reminder disabled", zap.Int64("user_id", userID))
	return nil
}

// NextRun returns when the user's reminder fires next after from. It is false
// when no job is scheduled, e.g. the reminder is disabled.
func (s *ReminderService) NextRun(userID int64, from time.Time) (time.Time, bool) {
	return s.scheduler.Next(domain.ReminderKey(userID), from)
}

// ScheduledJobs returns the number of reminder jobs currently scheduled
func (s *ReminderService) ScheduledJobs() int {
	return s.scheduler.Len()
}

// RescheduleAll registers every active reminder. Used at startup and by the
// manual reload.
func (s *ReminderService) RescheduleAll(ctx context.Context) (int, error) {
	active, err := s.reminders.Active(ctx)
	if err != nil {
		return 0, fmt.Errorf("load reminders: %w", err)
	}
	n := 0
	for _, rem := range active {
		if err := s.schedule(rem); err != nil {
			s.logger.Error("Failed to schedule reminder",
				zap.Int64("user_id", rem.UserID),
				zap.Error(err),
			)
			continue
		}
		n++
	}
	return n, nil
}

func (s *ReminderService) schedule(rem domain.Reminder) error {
	if err := s.scheduler.ScheduleRecurring(rem.SchedulerKey(), rem.CronSpec(), func() { s.fire(rem) }); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	return nil
}

func (s *ReminderService) fire(rem domain.Reminder) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, rem.ChatID, rem.Text()); err != nil {
		metrics.RemindersFired.WithLabelValues("error").Inc()
		s.logger.Error("Failed to send reminder",
			zap.Int64("user_id", rem.UserID),
			zap.Error(err),
		)
		return
	}
	metrics.RemindersFired.WithLabelValues("sent").Inc()
	s.logger.Debug("Reminder sent", zap.Int64("user_id", rem.UserID))
}
