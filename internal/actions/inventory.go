package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baristabot/internal/access"
	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
)

const emptyInventory = "📋 Список пуст. Добавьте товары через «" + menu.AddItem + "»"

func (h *Handlers) inventoryShow(ctx context.Context, req dispatch.Request) error {
	_, items, err := h.svc.Inventory.Current(ctx, req.Input.UserID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return h.reply(ctx, req, emptyInventory, menu.InventoryMenu)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Текущий список (%d):\n\n", len(items))
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s — %s %s\n", i+1, it.Name, it.Quantity.String(), it.Unit)
	}

	buttons := []chat.Button{{Text: "🔄 Сбросить", Token: callback.New(menu.ActInventoryClear, 0, "")}}
	if access.RoleHas(req.Role, domain.CapConfirmInventory) {
		buttons = append(buttons, chat.Button{Text: "✅ Подтвердить", Token: callback.New(menu.ActInventoryConfirm, 0, "")})
	}
	return h.inline(ctx, req, strings.TrimRight(b.String(), "\n"), [][]chat.Button{buttons})
}

func (h *Handlers) inventoryClear(ctx context.Context, req dispatch.Request) error {
	err := h.svc.Inventory.Clear(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, emptyInventory, menu.InventoryMenu)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req, "🔄 Список сброшен", menu.InventoryMenu)
}

func (h *Handlers) inventoryConfirm(ctx context.Context, req dispatch.Request) error {
	items, err := h.svc.Inventory.Confirm(ctx, req.Input.UserID)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNothingToSelect) {
		return h.reply(ctx, req, "📋 Список пуст, подтверждать нечего", menu.InventoryMenu)
	}
	if err != nil {
		return err
	}
	return h.reply(ctx, req, fmt.Sprintf("✅ Инвентаризация подтверждена. Позиций: %d", len(items)), menu.InventoryMenu)
}

func productLabel(p domain.Product) string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Category)
}

func (h *Handlers) catalogView(ctx context.Context, req dispatch.Request) error {
	categories, err := h.svc.Catalog.Categories(ctx)
	if err != nil {
		return err
	}

	var items []chat.ListItem
	for _, cat := range categories {
		products, err := h.svc.Catalog.ByCategory(ctx, cat)
		if err != nil {
			return err
		}
		for _, p := range products {
			items = append(items, chat.ListItem{ID: p.ID, Label: productLabel(p)})
		}
	}
	if len(items) == 0 {
		return h.reply(ctx, req, "📁 Справочник пуст", menu.CatalogMenu)
	}
	return h.browse(ctx, req, menu.ProductList, "📋 Справочник товаров:", items, menu.ActProductShow, menu.CatalogMenu)
}

func (h *Handlers) productShow(ctx context.Context, req dispatch.Request) error {
	p, err := h.svc.Catalog.Get(ctx, req.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return h.reply(ctx, req, "ℹ️ Товар не найден", menu.CatalogMenu)
	}
	if err != nil {
		return err
	}

	text := fmt.Sprintf("📦 %s\n\nID: %d\nКатегория: %s\nЕдиница: %s\nСтандартное количество: %s",
		p.Name, p.ID, p.Category, p.Unit, p.DefaultQuantity.String())
	if p.Description != "" {
		text += "\nОписание: " + p.Description
	}
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{Text: text})
}
