// Package flows declares every guided wizard of the bot.
package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/service"
	"baristabot/internal/wizard"

	"github.com/shopspring/decimal"
)

// Wizard kinds
const (
	EditUser           wizard.Kind = "edit_user"
	ChangeRole         wizard.Kind = "change_role"
	DeleteUser         wizard.Kind = "delete_user"
	CreateBonusProgram wizard.Kind = "create_bonus_program"
	CreateBonusLevel   wizard.Kind = "create_bonus_level"
	DeleteBonusLevel   wizard.Kind = "delete_bonus_level"
	AddCatalogItem     wizard.Kind = "add_catalog_item"
	EditCatalogItem    wizard.Kind = "edit_catalog_item"
	DeleteCatalogItem  wizard.Kind = "delete_catalog_item"
	EditCategory       wizard.Kind = "edit_category"
	RegisterCustomer   wizard.Kind = "register_customer"
	AddPurchase        wizard.Kind = "add_purchase"
	SearchCustomer     wizard.Kind = "search_customer"
	SetCustomerStatus  wizard.Kind = "set_customer_status"
	CreateReport       wizard.Kind = "create_report"
	AddExpense         wizard.Kind = "add_expense"
	SetCashIn          wizard.Kind = "set_cash_in"
	SetOnlineCash      wizard.Kind = "set_online_cash"
	CloseShift         wizard.Kind = "close_shift"
	AddInventoryItem   wizard.Kind = "add_inventory_item"
	SetupReminder      wizard.Kind = "setup_reminder"
)

// Shared field names. Presets passed to Engine.Start use the same keys.
const (
	FieldCustomerID   = "customer_id"
	FieldCustomerName = "customer_name"
	FieldActive       = "active"
	FieldReportID     = "report_id"
)

// Deps are the services commit callbacks and validators call
type Deps struct {
	Roles     *service.RoleService
	Catalog   *service.CatalogService
	Customers *service.CustomerService
	Purchases *service.PurchaseService
	Bonuses   *service.BonusService
	Reports   *service.ReportService
	Reminders *service.ReminderService
	Inventory *service.InventoryService
	// Lists receives browse lists produced by search results
	Lists conversation.ListStore
	Now   func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Definitions returns every wizard wired to d
func Definitions(d Deps) []*wizard.Definition {
	return []*wizard.Definition{
		editUser(d),
		changeRole(d),
		deleteUser(d),
		createBonusProgram(d),
		createBonusLevel(d),
		deleteBonusLevel(d),
		addCatalogItem(d),
		editCatalogItem(d),
		deleteCatalogItem(d),
		editCategory(d),
		registerCustomer(d),
		addPurchase(d),
		searchCustomer(d),
		setCustomerStatus(d),
		createReport(d),
		addExpense(d),
		setCashIn(d),
		setOnlineCash(d),
		closeShift(d),
		addInventoryItem(d),
		setupReminder(d),
	}
}

// Kinds lists every wizard kind declared by Definitions
func Kinds() []wizard.Kind {
	defs := Definitions(Deps{})
	kinds := make([]wizard.Kind, 0, len(defs))
	for _, d := range defs {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

type refusal struct {
	err  error
	text string
}

// refusals are checked in order; invariant violations come before generic ones
var refusals = []refusal{
	{domain.ErrLastAdmin, "⛔ Нельзя понизить или удалить последнего администратора"},
	{domain.ErrSelfRoleChange, "⛔ Нельзя изменить собственную роль или удалить себя"},
	{domain.ErrAccessDenied, "⛔ Недостаточно прав для этой операции"},
	{domain.ErrNoActiveReport, "ℹ️ Нет открытой смены. Сначала откройте смену."},
	{domain.ErrDuplicate, "⚠️ Такая запись уже существует"},
	{domain.ErrNotFound, "ℹ️ Запись не найдена"},
	{domain.ErrInvalidInput, "⚠️ Некорректные данные, операция не выполнена"},
}

func failureMessage(err error) (string, bool) {
	for _, r := range refusals {
		if errors.Is(err, r.err) {
			return r.text, true
		}
	}
	return "", false
}

// unique wraps a text validator with a storage uniqueness check
func unique(base wizard.Validator, taken func(ctx context.Context, value string) (bool, error), reason string) wizard.Validator {
	return func(ctx context.Context, in wizard.Input) (any, error) {
		v, err := base(ctx, in)
		if err != nil {
			return nil, err
		}
		exists, err := taken(ctx, v.(string))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, wizard.Retry(reason)
		}
		return v, nil
	}
}

// selectedLabel resolves a list pick and stores the label of the item
func selectedLabel() wizard.Validator {
	return func(_ context.Context, in wizard.Input) (any, error) {
		item, err := wizard.Selected(in)
		if err != nil {
			return nil, err
		}
		return item.Label, nil
	}
}

// rows lays labels out one per row
func rows(labels ...string) [][]string {
	out := make([][]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, []string{l})
	}
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " ₽"
}

func rub(n int64) string {
	return fmt.Sprintf("%d ₽", n)
}

func summary(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(l)
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func userItems(ctx context.Context, roles *service.RoleService, exclude int64) ([]chat.ListItem, error) {
	users, err := roles.Users(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]chat.ListItem, 0, len(users))
	for _, u := range users {
		if u.UserID == exclude {
			continue
		}
		items = append(items, chat.ListItem{ID: u.UserID, Label: UserLabel(u)})
	}
	return items, nil
}

// UserLabel is how an account is shown in lists
func UserLabel(u domain.User) string {
	label := u.DisplayName()
	if u.Username != "" && !strings.HasPrefix(label, "@") {
		label += " (@" + u.Username + ")"
	}
	return fmt.Sprintf("%s — %s", label, u.Role.DisplayName())
}

// CustomerLabel is how a customer is shown in lists
func CustomerLabel(c domain.Customer) string {
	label := fmt.Sprintf("#%d %s, %s", c.ID, c.Name, c.CardNumber)
	if !c.IsActive {
		label += " (неактивен)"
	}
	return label
}
