package actions

import (
	"context"
	"errors"
	"fmt"

	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/menu"

	"go.uber.org/zap"
)

const remindersMissing = "⏰ Напоминания не настроены. Используйте «" + menu.SetupSchedule + "»"

const nextRunLayout = "02.01.2006 15:04"

func (h *Handlers) reminderStatus(ctx context.Context, req dispatch.Request) error {
	rem, err := h.svc.Reminders.Get(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, remindersMissing, menu.ReminderMenu)
	}
	if err != nil {
		return err
	}

	status := "🔕 выключено"
	if rem.IsActive {
		status = "🔔 включено"
	}
	text := fmt.Sprintf("⏰ Напоминание: %s в %s\nТип: %s\nСтатус: %s",
		domain.WeekdayNames(rem.Days), rem.Clock(), rem.Type.Label(), status)
	if rem.Type == domain.ReminderCustom && rem.CustomText != "" {
		text += "\nТекст: " + rem.CustomText
	}
	if rem.IsActive {
		if next, ok := h.svc.Reminders.NextRun(req.Input.UserID, h.now()); ok {
			text += "\nСледующее срабатывание: " + next.Format(nextRunLayout)
		}
	}
	return h.reply(ctx, req, text, menu.ReminderMenu)
}

// reminderJobs lists the caller's scheduled job with its next run
func (h *Handlers) reminderJobs(ctx context.Context, req dispatch.Request) error {
	next, ok := h.svc.Reminders.NextRun(req.Input.UserID, h.now())
	if !ok {
		return h.reply(ctx, req, "❌ Нет активных заданий", menu.ReminderMenu)
	}
	text := fmt.Sprintf("📋 Активные задания:\n\n• %s: %s\n\nВсего заданий в планировщике: %d",
		domain.ReminderKey(req.Input.UserID), next.Format(nextRunLayout), h.svc.Reminders.ScheduledJobs())
	return h.reply(ctx, req, text, menu.ReminderMenu)
}

// reminderReload re-registers every active reminder with the scheduler
func (h *Handlers) reminderReload(ctx context.Context, req dispatch.Request) error {
	n, err := h.svc.Reminders.RescheduleAll(ctx)
	if err != nil {
		h.logger.Error("Failed to reload reminders", zap.Int64("user_id", req.Input.UserID), zap.Error(err))
		return h.reply(ctx, req, "❌ Ошибка перезагрузки напоминаний.", menu.ReminderMenu)
	}
	return h.reply(ctx, req, fmt.Sprintf("✅ Задания напоминаний перезагружены: %d", n), menu.ReminderMenu)
}

func (h *Handlers) reminderEnable(ctx context.Context, req dispatch.Request) error {
	rem, err := h.svc.Reminders.Enable(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, remindersMissing, menu.ReminderMenu)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req,
		fmt.Sprintf("🔔 Напоминания включены: %s в %s", domain.WeekdayNames(rem.Days), rem.Clock()),
		menu.ReminderMenu)
}

func (h *Handlers) reminderDisable(ctx context.Context, req dispatch.Request) error {
	err := h.svc.Reminders.Disable(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, remindersMissing, menu.ReminderMenu)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req, "🔕 Напоминания выключены", menu.ReminderMenu)
}
