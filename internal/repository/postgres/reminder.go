package postgres

import (
	"context"
	"fmt"

	"baristabot/internal/domain"
)

// ReminderRepo implements repository.ReminderRepository
type ReminderRepo struct {
	db querier
}

// NewReminderRepo creates a new reminder repository
func NewReminderRepo(db querier) *ReminderRepo {
	return &ReminderRepo{db: db}
}

const reminderColumns = `reminder_id, user_id, chat_id, days_of_week, reminder_time, reminder_type,
	custom_text, is_active, created_at, updated_at`

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var r domain.Reminder
	var days, clock, kind string
	err := row.Scan(&r.ID, &r.UserID, &r.ChatID, &days, &clock, &kind, &r.CustomText, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if r.Days, err = domain.ParseWeekdays(days); err != nil {
		return nil, fmt.Errorf("reminder %d: %w", r.ID, err)
	}
	if r.Hour, r.Minute, err = domain.ParseClock(clock); err != nil {
		return nil, fmt.Errorf("reminder %d: %w", r.ID, err)
	}
	r.Type = domain.ReminderType(kind)
	return &r, nil
}

// Upsert stores the user's single reminder
func (r *ReminderRepo) Upsert(ctx context.Context, rem domain.Reminder) (int64, error) {
	query := `
		INSERT INTO reminders (user_id, chat_id, days_of_week, reminder_time, reminder_type, custom_text, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			days_of_week = EXCLUDED.days_of_week,
			reminder_time = EXCLUDED.reminder_time,
			reminder_type = EXCLUDED.reminder_type,
			custom_text = EXCLUDED.custom_text,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING reminder_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, rem.UserID, rem.ChatID, domain.FormatWeekdays(rem.Days),
		rem.Clock(), string(rem.Type), rem.CustomText, rem.IsActive).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Get returns the user's reminder
func (r *ReminderRepo) Get(ctx context.Context, userID int64) (*domain.Reminder, error) {
	rem, err := scanReminder(r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1`, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return rem, nil
}

// SetActive toggles the user's reminder
func (r *ReminderRepo) SetActive(ctx context.Context, userID int64, active bool) error {
	query := `UPDATE reminders SET is_active = $1, updated_at = NOW() WHERE user_id = $2`
	return expectOne(r.db.ExecContext(ctx, query, active, userID))
}

// Active lists every enabled reminder
func (r *ReminderRepo) Active(ctx context.Context) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE is_active ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}
	return reminders, rows.Err()
}
