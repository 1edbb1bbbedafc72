package actions

import (
	"context"
	"strings"

	"baristabot/internal/chat"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/menu"

	"golang.org/x/text/cases"
)

// Finders look up storage when typed text matches nothing in an open browse list
func (h *Handlers) Finders() map[string]dispatch.Finder {
	return map[string]dispatch.Finder{
		menu.CustomerList: h.findCustomers,
		menu.ProductList:  h.findProducts,
		menu.UserList:     h.findUsers,
	}
}

func (h *Handlers) findCustomers(ctx context.Context, _ int64, query string) ([]chat.ListItem, error) {
	customers, err := h.svc.Customers.Search(ctx, domain.SearchByName, query)
	if err != nil {
		return nil, err
	}
	return customerItems(customers), nil
}

func (h *Handlers) findProducts(ctx context.Context, _ int64, query string) ([]chat.ListItem, error) {
	products, err := h.svc.Catalog.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	items := make([]chat.ListItem, 0, len(products))
	for _, p := range products {
		items = append(items, chat.ListItem{ID: p.ID, Label: productLabel(p)})
	}
	return items, nil
}

func (h *Handlers) findUsers(ctx context.Context, _ int64, query string) ([]chat.ListItem, error) {
	users, err := h.svc.Roles.Users(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	var items []chat.ListItem
	for _, it := range userItems(users) {
		if strings.Contains(fold.String(it.Label), needle) {
			items = append(items, it)
		}
	}
	return items, nil
}
