package actions

import (
	"context"
	"fmt"
	"strings"

	"baristabot/internal/dispatch"
	"baristabot/internal/menu"
)

func (h *Handlers) programList(ctx context.Context, req dispatch.Request) error {
	programs, err := h.svc.Bonuses.Programs(ctx)
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		return h.reply(ctx, req, "🎁 Программ лояльности пока нет", menu.BonusMenu)
	}

	var b strings.Builder
	b.WriteString("🎁 Программы лояльности:\n")
	for _, p := range programs {
		state := "активна"
		if !p.IsActive {
			state = "неактивна"
		}
		fmt.Fprintf(&b, "\n• %s — %s%% (%s)", p.Name, p.BasePercent.String(), state)
		if p.Description != "" {
			fmt.Fprintf(&b, "\n  %s", p.Description)
		}
	}
	return h.reply(ctx, req, b.String(), menu.BonusMenu)
}

func (h *Handlers) levelList(ctx context.Context, req dispatch.Request) error {
	levels, err := h.svc.Bonuses.AllLevels(ctx)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return h.reply(ctx, req, "📊 Уровней пока нет", menu.BonusMenu)
	}
	programs, err := h.svc.Bonuses.Programs(ctx)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(programs))
	for _, p := range programs {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	b.WriteString("📊 Уровни бонусов:\n")
	for _, l := range levels {
		fmt.Fprintf(&b, "\n• %s: от %s — %s%%", l.Name, money(l.MinPurchases), l.Percent.String())
		if name, ok := names[l.ProgramID]; ok {
			fmt.Fprintf(&b, " [%s]", name)
		}
	}
	return h.reply(ctx, req, b.String(), menu.BonusMenu)
}
