package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ReminderType selects the reminder text
type ReminderType string

const (
	ReminderCheckStock     ReminderType = "check_stock"
	ReminderStartInventory ReminderType = "start_inventory"
	ReminderCustom         ReminderType = "custom"
)

// Label returns user-facing reminder type name
func (t ReminderType) Label() string {
	switch t {
	case ReminderCheckStock:
		return "📦 Проверить остатки"
	case ReminderStartInventory:
		return "📋 Начать инвентаризацию"
	case ReminderCustom:
		return "✏️ Свой текст"
	default:
		return string(t)
	}
}

// Default reminder schedule
const (
	DefaultReminderDays = "1,3"
	DefaultReminderTime = "10:00"
)

// Reminder is a weekly recurring notification. Each user has at most one.
type Reminder struct {
	ID         int64
	UserID     int64
	ChatID     int64
	Days       []int // ISO weekdays, 1 is Monday
	Hour       int
	Minute     int
	Type       ReminderType
	CustomText string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Text returns the message sent when the reminder fires
func (r Reminder) Text() string {
	switch r.Type {
	case ReminderCustom:
		if r.CustomText != "" {
			return "🔔 " + r.CustomText
		}
		return "🔔 Напоминание"
	case ReminderStartInventory:
		return "🔔 Пора начать инвентаризацию!"
	default:
		return "🔔 Не забудьте проверить остатки на складе!"
	}
}

// Clock formats the fire time as HH:MM
func (r Reminder) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// CronSpec returns the five-field cron expression for the schedule
func (r Reminder) CronSpec() string {
	days := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		// cron counts Sunday as 0
		days = append(days, strconv.Itoa(d%7))
	}
	return fmt.Sprintf("%d %d * * %s", r.Minute, r.Hour, strings.Join(days, ","))
}

// SchedulerKey identifies the reminder job for a user
func (r Reminder) SchedulerKey() string {
	return ReminderKey(r.UserID)
}

// ReminderKey identifies the reminder job for a user
func ReminderKey(userID int64) string {
	return fmt.Sprintf("reminder:%d", userID)
}

var weekdayNames = map[int]string{
	1: "Пн", 2: "Вт", 3: "Ср", 4: "Чт", 5: "Пт", 6: "Сб", 7: "Вс",
}

// ParseWeekdays parses a comma or space separated list of ISO weekdays
func ParseWeekdays(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no weekdays", ErrInvalidInput)
	}

	seen := make(map[int]bool)
	days := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(f)
		if err != nil || d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: weekday %q", ErrInvalidInput, f)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days, nil
}

// FormatWeekdays renders weekdays in storage form ("1,3")
func FormatWeekdays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// WeekdayNames renders weekdays as short Russian names
func WeekdayNames(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, weekdayNames[d])
	}
	return strings.Join(parts, ", ")
}

// ParseClock parses HH:MM
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q", ErrInvalidInput, s)
	}
	return t.Hour(), t.Minute(), nil
}
