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
	"baristabot/internal/wizard"
)

// customerListLimit bounds the customers list
const customerListLimit = 20

func customerItems(customers []domain.Customer) []chat.ListItem {
	items := make([]chat.ListItem, 0, len(customers))
	for _, c := range customers {
		items = append(items, chat.ListItem{ID: c.ID, Label: flows.CustomerLabel(c)})
	}
	return items
}

func (h *Handlers) customerList(ctx context.Context, req dispatch.Request) error {
	customers, err := h.svc.Customers.List(ctx, customerListLimit)
	if err != nil {
		return err
	}
	if len(customers) == 0 {
		return h.reply(ctx, req, "👥 Клиентов пока нет", menu.CustomerMenu)
	}
	return h.browse(ctx, req, menu.CustomerList,
		fmt.Sprintf("📋 Последние клиенты (%d):", len(customers)),
		customerItems(customers), menu.ActCustomerShow, menu.CustomerMenu)
}

// customer loads the customer addressed by the request or tells the user it is gone
func (h *Handlers) customer(ctx context.Context, req dispatch.Request) (*domain.Customer, error) {
	c, err := h.svc.Customers.Get(ctx, req.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, h.reply(ctx, req, "ℹ️ Клиент не найден", menu.CustomerMenu)
	}
	return c, err
}

func (h *Handlers) customerShow(ctx context.Context, req dispatch.Request) error {
	c, err := h.customer(ctx, req)
	if c == nil {
		return err
	}

	status := "✅ активен"
	if !c.IsActive {
		status = "❌ неактивен"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n\nID: %d\nКарта: %s\nТелефон: %s\n", c.Name, c.ID, c.CardNumber, c.Phone)
	if c.Birthday != nil {
		fmt.Fprintf(&b, "День рождения: %s\n", c.Birthday.Format(dateLayout))
	}
	fmt.Fprintf(&b, "Статус: %s\nСумма покупок: %s\nДоступно бонусов: %s\nЗарегистрирован: %s",
		status, money(c.TotalPurchases), money(c.AvailableBonuses), c.RegisteredAt.Format(dateLayout))

	return h.inline(ctx, req, b.String(), menu.CustomerPanel(c.ID, c.IsActive))
}

func (h *Handlers) customerPurchases(ctx context.Context, req dispatch.Request) error {
	purchases, err := h.svc.Customers.Purchases(ctx, req.ID(), 10)
	if err != nil {
		return err
	}
	if len(purchases) == 0 {
		return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{Text: "📊 Покупок пока нет"})
	}

	var b strings.Builder
	b.WriteString("📊 Последние покупки:\n")
	for _, p := range purchases {
		fmt.Fprintf(&b, "\n%s — %s (+%s)", p.CreatedAt.Format("02.01.2006 15:04"), money(p.Amount), money(p.BonusEarned))
		if p.Description != "" {
			fmt.Fprintf(&b, ", %s", p.Description)
		}
	}
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{Text: b.String()})
}

func (h *Handlers) customerPurchase(ctx context.Context, req dispatch.Request) error {
	c, err := h.customer(ctx, req)
	if c == nil {
		return err
	}
	if !c.IsActive {
		return h.reply(ctx, req, "⚠️ Клиент неактивен, начисление невозможно", menu.CustomerMenu)
	}
	return h.startWizard(flows.AddPurchase, func(dispatch.Request) []wizard.Pair {
		return []wizard.Pair{
			{Key: flows.FieldCustomerID, Value: c.ID},
			{Key: flows.FieldCustomerName, Value: c.Name},
		}
	})(ctx, req)
}

func (h *Handlers) customerToggle(ctx context.Context, req dispatch.Request) error {
	c, err := h.customer(ctx, req)
	if c == nil {
		return err
	}
	return h.startWizard(flows.SetCustomerStatus, func(dispatch.Request) []wizard.Pair {
		return []wizard.Pair{
			{Key: flows.FieldCustomerID, Value: c.ID},
			{Key: flows.FieldActive, Value: !c.IsActive},
		}
	})(ctx, req)
}
