// Package actions holds the menu actions that run outside wizards: menus,
// lists, details, panels and one-shot operations.
package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/wizard"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WizardStarter opens wizards
type WizardStarter interface {
	Start(ctx context.Context, userID int64, kind wizard.Kind, preset ...wizard.Pair) error
}

// MenuRenderer renders menus for an already resolved role
type MenuRenderer interface {
	KeyboardFor(role domain.Role, menu string) [][]string
	Title(menu string) string
}

// Cleaner deletes recent messages of a chat. botOnly keeps user messages;
// limit 0 removes everything still tracked.
type Cleaner interface {
	Purge(ctx context.Context, chatID int64, botOnly bool, limit int) (int, error)
}

// Services are the business services actions read from
type Services struct {
	Roles     *service.RoleService
	Catalog   *service.CatalogService
	Customers *service.CustomerService
	Bonuses   *service.BonusService
	Reports   *service.ReportService
	Reminders *service.ReminderService
	Inventory *service.InventoryService
	Stats     *service.StatsService
}

// Options wires Handlers
type Options struct {
	Services  Services
	Wizards   WizardStarter
	Transport chat.Transport
	Menus     MenuRenderer
	Lists     conversation.ListStore
	Cleaner   Cleaner
	Logger    *zap.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// Handlers implements every non-wizard action
type Handlers struct {
	svc       Services
	wizards   WizardStarter
	transport chat.Transport
	menus     MenuRenderer
	lists     conversation.ListStore
	cleaner   Cleaner
	logger    *zap.Logger
	now       func() time.Time
}

// New creates the action handlers
func New(opts Options) *Handlers {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		svc:       opts.Services,
		wizards:   opts.Wizards,
		transport: opts.Transport,
		menus:     opts.Menus,
		lists:     opts.Lists,
		cleaner:   opts.Cleaner,
		logger:    opts.Logger,
		now:       now,
	}
}

// reply sends text with the keyboard of menuName filtered for the caller's role
func (h *Handlers) reply(ctx context.Context, req dispatch.Request, text, menuName string) error {
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{
		Text:     text,
		Keyboard: h.menus.KeyboardFor(req.Role, menuName),
	})
}

// inline sends text with inline buttons
func (h *Handlers) inline(ctx context.Context, req dispatch.Request, text string, buttons [][]chat.Button) error {
	return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{Text: text, Inline: buttons})
}

func (h *Handlers) showMenu(name string) dispatch.Action {
	return func(ctx context.Context, req dispatch.Request) error {
		return h.reply(ctx, req, h.menus.Title(name)+"\n\nВыберите действие:", name)
	}
}

func (h *Handlers) startWizard(kind wizard.Kind, preset func(dispatch.Request) []wizard.Pair) dispatch.Action {
	return func(ctx context.Context, req dispatch.Request) error {
		var pairs []wizard.Pair
		if preset != nil {
			pairs = preset(req)
		}
		err := h.wizards.Start(ctx, req.Input.UserID, kind, pairs...)
		if errors.Is(err, domain.ErrWizardActive) {
			return h.transport.RenderPrompt(ctx, req.Input.UserID, chat.Message{
				Text: "⚠️ Сначала завершите или отмените текущую операцию (" + menu.Cancel + ")",
			})
		}
		return err
	}
}

// browse renders items and remembers them as the user's open browse list
func (h *Handlers) browse(ctx context.Context, req dispatch.Request, name, title string, items []chat.ListItem, showAction, menuName string) error {
	h.lists.Set(req.Input.UserID, conversation.ListContext{
		Name:       name,
		Items:      items,
		ShowAction: showAction,
	})
	return h.transport.RenderList(ctx, req.Input.UserID, chat.List{
		Title:        title,
		Items:        items,
		SelectAction: showAction,
		Footer:       "Отправьте ID, часть названия или нажмите кнопку",
		Keyboard:     h.menus.KeyboardFor(req.Role, menuName),
	})
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " ₽"
}

func rub(n int64) string {
	return fmt.Sprintf("%d ₽", n)
}

const dateLayout = "02.01.2006"
