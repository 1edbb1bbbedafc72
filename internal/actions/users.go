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
	"baristabot/internal/flows"
	"baristabot/internal/menu"
)

func userItems(users []domain.User) []chat.ListItem {
	items := make([]chat.ListItem, 0, len(users))
	for _, u := range users {
		items = append(items, chat.ListItem{ID: u.UserID, Label: flows.UserLabel(u)})
	}
	return items
}

func (h *Handlers) userList(ctx context.Context, req dispatch.Request) error {
	users, err := h.svc.Roles.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return h.reply(ctx, req, "👥 Пользователей нет", menu.UserMenu)
	}
	return h.browse(ctx, req, menu.UserList,
		fmt.Sprintf("📋 Пользователи (%d):", len(users)),
		userItems(users), menu.ActUserShow, menu.UserMenu)
}

func (h *Handlers) userShow(ctx context.Context, req dispatch.Request) error {
	u, err := h.svc.Roles.User(ctx, req.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, "ℹ️ Пользователь не найден", menu.UserMenu)
	}
	if err != nil {
		return err
	}

	text := fmt.Sprintf("👤 %s\n\nID: %d\nUsername: %s\nТелефон: %s\nРоль: %s\nСоздан: %s",
		u.DisplayName(), u.UserID, orDash(u.Username), orDash(u.Phone),
		u.Role.DisplayName(), u.CreatedAt.Format(dateLayout))
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{Text: text})
}

func (h *Handlers) roleList(ctx context.Context, req dispatch.Request) error {
	users, err := h.svc.Roles.Users(ctx)
	if err != nil {
		return err
	}
	counts := make(map[domain.Role]int)
	for _, u := range users {
		role, err := domain.ParseRole(string(u.Role))
		if err != nil {
			role = domain.RoleGuest
		}
		counts[role]++
	}

	var b strings.Builder
	b.WriteString("🎭 Роли:\n")
	for _, role := range domain.Roles() {
		fmt.Fprintf(&b, "\n%s: %d польз., разрешений: %d", role.DisplayName(), counts[role], len(access.CapabilitiesOf(role)))
	}
	return h.reply(ctx, req, b.String(), menu.RoleMenu)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
