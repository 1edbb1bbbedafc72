package menu

import (
	"context"

	"baristabot/internal/access"
	"baristabot/internal/domain"
)

// Provider renders menus filtered by what the user's role may open
type Provider struct {
	router *access.Router
	roles  access.RoleResolver
}

// NewProvider creates a menu provider
func NewProvider(router *access.Router, roles access.RoleResolver) *Provider {
	return &Provider{router: router, roles: roles}
}

// Keyboard returns the permitted rows of a menu for userID
func (p *Provider) Keyboard(ctx context.Context, userID int64, menu string) [][]string {
	return p.KeyboardFor(p.roles.RoleOf(ctx, userID), menu)
}

// KeyboardFor returns the permitted rows of a menu for role. Empty rows are dropped.
func (p *Provider) KeyboardFor(role domain.Role, menu string) [][]string {
	layout := LayoutOf(menu)
	rows := make([][]string, 0, len(layout.Rows))
	for _, row := range layout.Rows {
		kept := make([]string, 0, len(row))
		for _, label := range row {
			if p.router.Permitted(role, label) {
				kept = append(kept, label)
			}
		}
		if len(kept) > 0 {
			rows = append(rows, kept)
		}
	}
	return rows
}

// Title returns the heading of a menu
func (p *Provider) Title(menu string) string {
	return LayoutOf(menu).Title
}
