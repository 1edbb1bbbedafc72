package menu

// Menu names
const (
	Main          = "main"
	InventoryMenu = "inventory"
	CatalogMenu   = "catalog"
	ReminderMenu  = "reminders"
	CustomerMenu  = "customers"
	BonusMenu     = "bonus"
	ProgramMenu   = "programs"
	LevelMenu     = "levels"
	AdminMenu     = "admin"
	UserMenu      = "users"
	RoleMenu      = "roles"
	ReportMenu    = "reports"
	ToolsMenu     = "tools"
)

// Layout is a menu title plus its rows of labels, before permission filtering
type Layout struct {
	Title string
	Rows  [][]string
}

var layouts = map[string]Layout{
	Main: {
		Title: "🏠 Главное меню",
		Rows: [][]string{
			{Inventory, Reminders},
			{Customers, BonusSystem},
			{MyBonuses, MyStats},
			{Reports, Administration},
			{Tools, Profile},
			{Exit},
		},
	},
	InventoryMenu: {
		Title: "📦 Инвентаризация",
		Rows: [][]string{
			{InventoryList, AddItem},
			{ClearInventory, ConfirmInventory},
			{Catalog},
			{BackToMain},
		},
	},
	CatalogMenu: {
		Title: "📁 Справочник товаров",
		Rows: [][]string{
			{ViewCatalog, AddCatalog},
			{EditCatalog, DeleteCatalog},
			{EditCategory},
			{BackToInventory},
		},
	},
	ReminderMenu: {
		Title: "⏰ Напоминания",
		Rows: [][]string{
			{ReminderStatus},
			{SetupSchedule},
			{StartReminders, StopReminders},
			{CheckJobs, ReloadJobs},
			{BackToMain},
		},
	},
	CustomerMenu: {
		Title: "👥 Клиенты",
		Rows: [][]string{
			{RegisterCustomer, CustomersList},
			{SearchCustomer, AddPurchase},
			{ActivateCustomer, DeactivateCustomer},
			{BackToMain},
		},
	},
	BonusMenu: {
		Title: "🎁 Бонусная система",
		Rows: [][]string{
			{ListPrograms, ListLevels},
			{ProgramsManagement, LevelsSettings},
			{BackToMain},
		},
	},
	ProgramMenu: {
		Title: "⚙️ Программы лояльности",
		Rows: [][]string{
			{ListPrograms, AddProgram},
			{BackToBonus},
		},
	},
	LevelMenu: {
		Title: "📊 Уровни бонусов",
		Rows: [][]string{
			{ListLevels, AddLevel},
			{DeleteLevel},
			{BackToBonus},
		},
	},
	AdminMenu: {
		Title: "⚙️ Администрирование",
		Rows: [][]string{
			{UserManagement, RoleManagement},
			{SystemStats},
			{BackToMain},
		},
	},
	UserMenu: {
		Title: "👥 Пользователи",
		Rows: [][]string{
			{AllUsers},
			{EditUser, DeleteUser},
			{BackToAdmin},
		},
	},
	RoleMenu: {
		Title: "🎭 Роли",
		Rows: [][]string{
			{AllRoles, SetRoles},
			{BackToAdmin},
		},
	},
	ReportMenu: {
		Title: "📊 Отчеты",
		Rows: [][]string{
			{CurrentShift},
			{OpenShift, CloseShift},
			{ReportHistory},
			{BackToMain},
		},
	},
	ToolsMenu: {
		Title: "🔧 Инструменты",
		Rows: [][]string{
			{CleanupOwn, CleanupCount},
			{CleanupAll},
			{BackToMain},
		},
	},
}

// LayoutOf returns the unfiltered layout of a menu. Unknown names fall back to Main.
func LayoutOf(name string) Layout {
	if l, ok := layouts[name]; ok {
		return l
	}
	return layouts[Main]
}

// Names lists every menu name
func Names() []string {
	out := make([]string, 0, len(layouts))
	for name := range layouts {
		out = append(out, name)
	}
	return out
}
