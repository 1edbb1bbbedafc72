package menu

import (
	"baristabot/internal/callback"
	"baristabot/internal/chat"
)

// Inline button actions. They are routed like labels, so the same access
// table guards both.
const (
	ActCustomerShow      = "customer_show"
	ActCustomerPurchases = "customer_purchases"
	ActCustomerPurchase  = "customer_purchase"
	ActCustomerToggle    = "customer_toggle"
	ActProductShow       = "product_show"
	ActUserShow          = "user_show"
	ActReportRefresh     = "report_refresh"
	ActReportExpense     = "report_expense"
	ActReportCashIn      = "report_cash_in"
	ActReportOnline      = "report_online"
	ActReportClose       = "report_close"
	ActInventoryClear    = "inventory_clear"
	ActInventoryConfirm  = "inventory_confirm"
)

// Browse list names
const (
	CustomerList = "customers"
	ProductList  = "products"
	UserList     = "users"
)

// ReportPanel is the inline keyboard attached to an open shift report
func ReportPanel(reportID int64) [][]chat.Button {
	btn := func(text, action string) chat.Button {
		return chat.Button{Text: text, Token: callback.New(action, reportID, "")}
	}
	return [][]chat.Button{
		{btn("➖ Расход", ActReportExpense), btn("➕ Внесение", ActReportCashIn)},
		{btn("💳 Безнал", ActReportOnline), btn("🔄 Обновить", ActReportRefresh)},
		{btn("🔕 Закрыть смену", ActReportClose)},
	}
}

// CustomerPanel is the inline keyboard under customer details
func CustomerPanel(customerID int64, active bool) [][]chat.Button {
	toggle := "❌ Деактивировать"
	if !active {
		toggle = "✅ Активировать"
	}
	return [][]chat.Button{
		{
			{Text: "💰 Покупка", Token: callback.New(ActCustomerPurchase, customerID, "")},
			{Text: "📊 История покупок", Token: callback.New(ActCustomerPurchases, customerID, "")},
		},
		{{Text: toggle, Token: callback.New(ActCustomerToggle, customerID, "")}},
	}
}
