package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baristabot/internal/access"
	"baristabot/internal/chat"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/menu"

	"go.uber.org/zap"
)

func (h *Handlers) start(ctx context.Context, req dispatch.Request) error {
	name := ""
	if u, err := h.svc.Roles.User(ctx, req.Input.UserID); err == nil {
		name = u.DisplayName()
	} else if !errors.Is(err, domain.ErrNotFound) {
		h.logger.Warn("Failed to load user for greeting", zap.Int64("user_id", req.Input.UserID), zap.Error(err))
	}

	greeting := "👋 Добро пожаловать!"
	if name != "" && name != "—" {
		greeting = fmt.Sprintf("👋 Добро пожаловать, %s!", name)
	}
	text := fmt.Sprintf("%s\nВаша роль: %s\n\n%s\n\nВыберите действие:",
		greeting, req.Role.DisplayName(), h.menus.Title(menu.Main))
	return h.reply(ctx, req, text, menu.Main)
}

func (h *Handlers) exit(ctx context.Context, req dispatch.Request) error {
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{
		Text:           "👋 До свидания! Чтобы вернуться, отправьте " + menu.StartCommand,
		RemoveKeyboard: true,
	})
}

func (h *Handlers) profile(ctx context.Context, req dispatch.Request) error {
	u, err := h.svc.Roles.User(ctx, req.Input.UserID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("👤 Профиль\n\n")
	fmt.Fprintf(&b, "ID: %d\n", u.UserID)
	fmt.Fprintf(&b, "Имя: %s\n", u.DisplayName())
	if u.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\n", u.Username)
	}
	if u.Phone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", u.Phone)
	}
	fmt.Fprintf(&b, "Роль: %s\n", req.Role.DisplayName())
	fmt.Fprintf(&b, "Разрешений: %d\n", len(access.CapabilitiesOf(req.Role)))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "С нами с %s", u.CreatedAt.Format(dateLayout))
	}
	return h.reply(ctx, req, strings.TrimRight(b.String(), "\n"), menu.Main)
}

func (h *Handlers) myBonuses(ctx context.Context, req dispatch.Request) error {
	c, err := h.svc.Customers.ByUser(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, "🎫 У вас пока нет бонусной карты. Попросите бариста зарегистрировать вас.", menu.Main)
	}
	if err != nil {
		return err
	}

	text := fmt.Sprintf("🎫 Ваша карта: %s\n\nДоступно бонусов: %s\nВсего начислено: %s\nСумма покупок: %s",
		c.CardNumber, money(c.AvailableBonuses), money(c.TotalBonuses), money(c.TotalPurchases))
	if !c.IsActive {
		text += "\n\n⚠️ Карта неактивна"
	}
	return h.reply(ctx, req, text, menu.Main)
}

func (h *Handlers) myStats(ctx context.Context, req dispatch.Request) error {
	c, err := h.svc.Customers.ByUser(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, "🏆 Статистика появится после первой покупки с бонусной картой.", menu.Main)
	}
	if err != nil {
		return err
	}
	purchases, err := h.svc.Customers.Purchases(ctx, c.ID, 5)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Ваша статистика\n\nСумма покупок: %s\nНачислено бонусов: %s\n", money(c.TotalPurchases), money(c.TotalBonuses))
	if len(purchases) > 0 {
		b.WriteString("\nПоследние покупки:\n")
		for _, p := range purchases {
			fmt.Fprintf(&b, "• %s — %s (+%s)\n", p.CreatedAt.Format(dateLayout), money(p.Amount), money(p.BonusEarned))
		}
	}
	return h.reply(ctx, req, strings.TrimRight(b.String(), "\n"), menu.Main)
}

func (h *Handlers) systemStats(ctx context.Context, req dispatch.Request) error {
	stats, err := h.svc.Stats.Summary(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика системы\n\nПользователей: %d\n", stats.Users)
	for _, role := range domain.Roles() {
		if n := stats.UsersByRole[role]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", role.DisplayName(), n)
		}
	}
	fmt.Fprintf(&b, "Клиентов: %d (активных: %d)\n", stats.Customers, stats.ActiveCustomers)
	if stats.ActiveReport != nil {
		fmt.Fprintf(&b, "Смена: открыта №%d с %s", stats.ActiveReport.ID, stats.ActiveReport.CreatedAt.Format("02.01 15:04"))
	} else {
		b.WriteString("Смена: закрыта")
	}
	return h.reply(ctx, req, b.String(), menu.AdminMenu)
}

func (h *Handlers) cleanup(botOnly bool, limit int) dispatch.Action {
	return func(ctx context.Context, req dispatch.Request) error {
		n, err := h.cleaner.Purge(ctx, req.Input.ChatID, botOnly, limit)
		if err != nil {
			h.logger.Error("Chat cleanup failed",
				zap.Int64("chat_id", req.Input.ChatID),
				zap.Int("deleted", n),
				zap.Error(err),
			)
			return h.reply(ctx, req, "❌ Ошибка удаления сообщений.", menu.ToolsMenu)
		}
		h.logger.Info("Chat cleaned up",
			zap.Int64("chat_id", req.Input.ChatID),
			zap.Bool("bot_only", botOnly),
			zap.Int("deleted", n),
		)
		return h.reply(ctx, req, fmt.Sprintf("✅ Удалено сообщений: %d", n), menu.ToolsMenu)
	}
}
