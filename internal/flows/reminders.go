package flows

import (
	"context"
	"fmt"
	"strings"

	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/wizard"
)

const (
	fieldDays       = "days"
	fieldHour       = "hour"
	fieldMinute     = "minute"
	fieldType       = "type"
	fieldCustomText = "custom_text"
)

func weekdays(_ context.Context, in wizard.Input) (any, error) {
	days, err := domain.ParseWeekdays(in.Text)
	if err != nil {
		return nil, wizard.Retry("Введите дни недели числами от 1 до 7 через запятую, например 1,3")
	}
	return days, nil
}

func clock(_ context.Context, in wizard.Input) (any, error) {
	h, m, err := domain.ParseClock(in.Text)
	if err != nil {
		return nil, wizard.Retry("Введите время в формате ЧЧ:ММ, например 10:00")
	}
	return wizard.Values{{Key: fieldHour, Value: h}, {Key: fieldMinute, Value: m}}, nil
}

func reminderTypeChoice(_ context.Context, in wizard.Input) (any, error) {
	candidate := strings.TrimSpace(in.Text)
	if in.Token != nil {
		candidate = in.Token.Arg
	}
	for _, t := range reminderOptions {
		if candidate == t.label || candidate == string(t.kind) {
			return string(t.kind), nil
		}
	}
	return nil, wizard.Retry("Выберите тип напоминания кнопкой")
}

var reminderOptions = []struct {
	label string
	kind  domain.ReminderType
}{
	{menu.CheckStock, domain.ReminderCheckStock},
	{menu.StartInventory, domain.ReminderStartInventory},
	{menu.OwnVariant, domain.ReminderCustom},
}

func setupReminder(d Deps) *wizard.Definition {
	labels := make([]string, 0, len(reminderOptions))
	for _, o := range reminderOptions {
		labels = append(labels, o.label)
	}

	return &wizard.Definition{
		Kind: SetupReminder,
		Steps: []wizard.Step{
			{
				Name:     "days",
				Field:    fieldDays,
				Prompt:   wizard.KeyboardPrompt("📅 Введите дни недели (1 - понедельник, 7 - воскресенье):", []string{domain.DefaultReminderDays}),
				Validate: weekdays,
			},
			{
				Name:     "time",
				Field:    fieldHour,
				Prompt:   wizard.KeyboardPrompt("⏰ Введите время напоминания (ЧЧ:ММ):", []string{domain.DefaultReminderTime}),
				Validate: clock,
			},
			{
				Name:     "type",
				Field:    fieldType,
				Prompt:   wizard.KeyboardPrompt("Выберите текст напоминания:", rows(labels...)...),
				Validate: reminderTypeChoice,
				Next: func(value any, _ *conversation.Fields) string {
					if value == string(domain.ReminderCustom) {
						return ""
					}
					return "confirm"
				},
			},
			{
				Name:     "custom_text",
				Field:    fieldCustomText,
				Prompt:   wizard.StaticPrompt("✏️ Введите текст напоминания:"),
				Validate: wizard.Text(1, 500),
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					rem := reminderFrom(env.UserID, env.Fields)
					return wizard.Prompt{Text: summary("🔔 Напоминание:",
						"Дни: "+domain.WeekdayNames(rem.Days),
						"Время: "+rem.Clock(),
						"Текст: "+rem.Text(),
						"",
						"Сохранить?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			rem := reminderFrom(userID, f)
			saved, err := d.Reminders.Setup(ctx, service.ReminderInput{
				UserID:     rem.UserID,
				ChatID:     rem.ChatID,
				Days:       rem.Days,
				Hour:       rem.Hour,
				Minute:     rem.Minute,
				Type:       rem.Type,
				CustomText: rem.CustomText,
			})
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Напоминание включено: %s в %s",
				domain.WeekdayNames(saved.Days), saved.Clock())}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ReminderMenu,
	}
}

// reminderFrom builds the reminder for a private chat, where chat ID equals user ID
func reminderFrom(userID int64, f *conversation.Fields) domain.Reminder {
	return domain.Reminder{
		UserID:     userID,
		ChatID:     userID,
		Days:       f.Ints(fieldDays),
		Hour:       int(f.Int64(fieldHour)),
		Minute:     int(f.Int64(fieldMinute)),
		Type:       domain.ReminderType(f.String(fieldType)),
		CustomText: f.String(fieldCustomText),
	}
}
