package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baristabot/internal/chat"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/flows"
	"baristabot/internal/menu"
)

const noShift = "ℹ️ Нет открытой смены"

// reportHistoryLimit bounds the history listing
const reportHistoryLimit = 10

func (h *Handlers) reportCurrent(ctx context.Context, req dispatch.Request) error {
	rep, err := h.svc.Reports.Active(ctx)
	if errors.Is(err, domain.ErrNoActiveReport) {
		return h.reply(ctx, req, noShift, menu.ReportMenu)
	}
	if err != nil {
		return err
	}
	return h.inline(ctx, req, flows.ReportSummary(*rep), menu.ReportPanel(rep.ID))
}

func (h *Handlers) reportHistory(ctx context.Context, req dispatch.Request) error {
	reports, err := h.svc.Reports.History(ctx, reportHistoryLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return h.reply(ctx, req, "📊 Отчетов пока нет", menu.ReportMenu)
	}

	var b strings.Builder
	b.WriteString("📊 История смен:\n")
	for _, r := range reports {
		rec := r.Reconcile()
		state := "закрыта"
		if r.IsActive {
			state = "открыта"
		}
		fmt.Fprintf(&b, "\n№%d %s, %s: итого %s (%s)",
			r.ID, r.CreatedAt.Format(dateLayout), orDash(r.Username), rub(rec.Total), state)
	}
	return h.reply(ctx, req, b.String(), menu.ReportMenu)
}

// reportRefresh redraws the panel in place when the callback carries a message
func (h *Handlers) reportRefresh(ctx context.Context, req dispatch.Request) error {
	rep, err := h.svc.Reports.Active(ctx)
	if errors.Is(err, domain.ErrNoActiveReport) || (err == nil && rep.ID != req.ID()) {
		return h.reply(ctx, req, "ℹ️ Эта смена уже закрыта", menu.ReportMenu)
	}
	if err != nil {
		return err
	}

	msg := chat.Message{Text: flows.ReportSummary(*rep), Inline: menu.ReportPanel(rep.ID)}
	if req.Input.Ref != nil {
		return h.transport.EditOrReplace(ctx, req.Input.UserID, *req.Input.Ref, msg)
	}
	return h.transport.RenderPrompt(ctx, req.Input.UserID, msg)
}
