package actions

import (
	"baristabot/internal/access"
	"baristabot/internal/dispatch"
	"baristabot/internal/domain"
	"baristabot/internal/flows"
	"baristabot/internal/menu"
	"baristabot/internal/wizard"
)

// Action names that are not menus or plain wizard starts
const (
	actStart              = "start"
	actExit               = "exit"
	actProfile            = "profile"
	actMyBonuses          = "my_bonuses"
	actMyStats            = "my_stats"
	actInventoryShow      = "inventory.show"
	actInventoryClear     = "inventory.clear"
	actInventoryConfirm   = "inventory.confirm"
	actCatalogView        = "catalog.view"
	actProductShow        = "catalog.show"
	actReminderStatus     = "reminders.status"
	actReminderEnable     = "reminders.enable"
	actReminderDisable    = "reminders.disable"
	actReminderJobs       = "reminders.jobs"
	actReminderReload     = "reminders.reload"
	actCustomerList       = "customers.list"
	actCustomerShow       = "customers.show"
	actCustomerPurchases  = "customers.purchases"
	actCustomerPurchase   = "customers.purchase"
	actCustomerToggle     = "customers.toggle"
	actCustomerActivate   = "customers.activate"
	actCustomerDeactivate = "customers.deactivate"
	actProgramList        = "bonus.programs"
	actLevelList          = "bonus.levels"
	actUserList           = "users.list"
	actUserShow           = "users.show"
	actRoleList           = "roles.list"
	actSystemStats        = "admin.stats"
	actCleanupOwn         = "cleanup.own"
	actCleanupCount       = "cleanup.count"
	actCleanupAll         = "cleanup.all"
	actReportCurrent      = "reports.current"
	actReportHistory      = "reports.history"
	actReportRefresh      = "reports.refresh"
	actReportExpense      = "reports.expense"
	actReportCashIn       = "reports.cash_in"
	actReportOnline       = "reports.online"
	actReportClose        = "reports.close"
)

func menuAction(name string) string {
	return "menu." + name
}

func wizardAction(kind wizard.Kind) string {
	return "wizard." + string(kind)
}

func to(control, action string, req access.Requirement) access.Route {
	return access.Route{ControlID: control, Action: action, Requirement: req}
}

func open(control, menuName string, req access.Requirement) access.Route {
	return to(control, menuAction(menuName), req)
}

func wiz(control string, kind wizard.Kind, req access.Requirement) access.Route {
	return to(control, wizardAction(kind), req)
}

// Routes is the complete access table: every reply keyboard label, slash
// command and inline action the bot understands.
func Routes() []access.Route {
	var (
		anyone          = access.None()
		viewProfile     = access.NeedCapability(domain.CapViewProfile)
		viewInventory   = access.NeedCapability(domain.CapViewInventory)
		manageInventory = access.NeedCapability(domain.CapManageInventory)
		confirmInv      = access.NeedCapability(domain.CapConfirmInventory)
		viewReminders   = access.NeedCapability(domain.CapViewReminders)
		manageReminders = access.NeedCapability(domain.CapManageReminders)
		manageCustomers = access.NeedCapability(domain.CapManageCustomers)
		viewBonuses     = access.NeedCapability(domain.CapViewBonuses)
		manageBonuses   = access.NeedCapability(domain.CapManageBonuses)
		manageUsers     = access.NeedCapability(domain.CapManageUsers)
		manageRoles     = access.NeedCapability(domain.CapManageRoles)
		cleanup         = access.NeedCapability(domain.CapCleanupChat)
		viewReports     = access.NeedCapability(domain.CapViewReports)
		manageReports   = access.NeedCapability(domain.CapManageReports)
		onlyVisitor     = access.OnlyRole(domain.RoleVisitor)
		onlyAdmin       = access.OnlyRole(domain.RoleAdmin)
	)

	return []access.Route{
		to(menu.StartCommand, actStart, anyone),
		to(menu.Profile, actProfile, viewProfile),
		to(menu.Exit, actExit, anyone),
		open(menu.BackToMain, menu.Main, anyone),

		open(menu.Inventory, menu.InventoryMenu, viewInventory),
		open(menu.BackToInventory, menu.InventoryMenu, viewInventory),
		to(menu.InventoryList, actInventoryShow, viewInventory),
		wiz(menu.AddItem, flows.AddInventoryItem, manageInventory),
		to(menu.ClearInventory, actInventoryClear, manageInventory),
		to(menu.ActInventoryClear, actInventoryClear, manageInventory),
		to(menu.ConfirmInventory, actInventoryConfirm, confirmInv),
		to(menu.ActInventoryConfirm, actInventoryConfirm, confirmInv),

		open(menu.Catalog, menu.CatalogMenu, manageInventory),
		to(menu.ViewCatalog, actCatalogView, viewInventory),
		to(menu.ActProductShow, actProductShow, viewInventory),
		wiz(menu.AddCatalog, flows.AddCatalogItem, manageInventory),
		wiz(menu.EditCatalog, flows.EditCatalogItem, manageInventory),
		wiz(menu.DeleteCatalog, flows.DeleteCatalogItem, manageInventory),
		wiz(menu.EditCategory, flows.EditCategory, manageInventory),

		open(menu.Reminders, menu.ReminderMenu, viewReminders),
		to(menu.ReminderStatus, actReminderStatus, viewReminders),
		wiz(menu.SetupSchedule, flows.SetupReminder, manageReminders),
		to(menu.StartReminders, actReminderEnable, manageReminders),
		to(menu.StopReminders, actReminderDisable, manageReminders),
		to(menu.CheckJobs, actReminderJobs, manageReminders),
		to(menu.ReloadJobs, actReminderReload, manageReminders),

		open(menu.Customers, menu.CustomerMenu, manageCustomers),
		open(menu.BackToCustomers, menu.CustomerMenu, manageCustomers),
		wiz(menu.RegisterCustomer, flows.RegisterCustomer, manageCustomers),
		to(menu.CustomersList, actCustomerList, manageCustomers),
		wiz(menu.SearchCustomer, flows.SearchCustomer, manageCustomers),
		wiz(menu.NewSearch, flows.SearchCustomer, manageCustomers),
		wiz(menu.AddPurchase, flows.AddPurchase, manageCustomers),
		to(menu.ActivateCustomer, actCustomerActivate, manageCustomers),
		to(menu.DeactivateCustomer, actCustomerDeactivate, manageCustomers),
		to(menu.ActCustomerShow, actCustomerShow, manageCustomers),
		to(menu.ActCustomerPurchases, actCustomerPurchases, manageCustomers),
		to(menu.ActCustomerPurchase, actCustomerPurchase, manageCustomers),
		to(menu.ActCustomerToggle, actCustomerToggle, manageCustomers),

		open(menu.BonusSystem, menu.BonusMenu, viewBonuses),
		open(menu.BackToBonus, menu.BonusMenu, viewBonuses),
		to(menu.ListPrograms, actProgramList, viewBonuses),
		to(menu.ListLevels, actLevelList, viewBonuses),
		open(menu.ProgramsManagement, menu.ProgramMenu, manageBonuses),
		open(menu.LevelsSettings, menu.LevelMenu, manageBonuses),
		wiz(menu.AddProgram, flows.CreateBonusProgram, manageBonuses),
		wiz(menu.AddLevel, flows.CreateBonusLevel, manageBonuses),
		wiz(menu.DeleteLevel, flows.DeleteBonusLevel, manageBonuses),

		to(menu.MyBonuses, actMyBonuses, onlyVisitor),
		to(menu.MyStats, actMyStats, onlyVisitor),

		open(menu.Administration, menu.AdminMenu, onlyAdmin),
		open(menu.BackToAdmin, menu.AdminMenu, onlyAdmin),
		open(menu.UserManagement, menu.UserMenu, onlyAdmin),
		open(menu.RoleManagement, menu.RoleMenu, onlyAdmin),
		to(menu.SystemStats, actSystemStats, access.RoleAndCapability(domain.RoleAdmin, domain.CapManageSystem)),
		to(menu.AllUsers, actUserList, manageUsers),
		to(menu.ActUserShow, actUserShow, manageUsers),
		wiz(menu.EditUser, flows.EditUser, manageUsers),
		wiz(menu.DeleteUser, flows.DeleteUser, manageUsers),
		to(menu.AllRoles, actRoleList, manageRoles),
		wiz(menu.SetRoles, flows.ChangeRole, manageRoles),

		open(menu.Tools, menu.ToolsMenu, cleanup),
		to(menu.CleanupOwn, actCleanupOwn, cleanup),
		to(menu.CleanupCount, actCleanupCount, access.RoleAndCapability(domain.RoleAdmin, domain.CapCleanupChat)),
		to(menu.CleanupAll, actCleanupAll, access.RoleAndCapability(domain.RoleAdmin, domain.CapCleanupChat)),

		open(menu.Reports, menu.ReportMenu, viewReports),
		to(menu.CurrentShift, actReportCurrent, viewReports),
		to(menu.ReportHistory, actReportHistory, viewReports),
		to(menu.ActReportRefresh, actReportRefresh, viewReports),
		wiz(menu.OpenShift, flows.CreateReport, manageReports),
		wiz(menu.CloseShift, flows.CloseShift, manageReports),
		to(menu.ActReportExpense, actReportExpense, manageReports),
		to(menu.ActReportCashIn, actReportCashIn, manageReports),
		to(menu.ActReportOnline, actReportOnline, manageReports),
		to(menu.ActReportClose, actReportClose, manageReports),
	}
}

// Registry binds every action name used by Routes to its handler
func (h *Handlers) Registry() dispatch.Registry {
	reg := dispatch.Registry{
		actStart:     h.start,
		actExit:      h.exit,
		actProfile:   h.profile,
		actMyBonuses: h.myBonuses,
		actMyStats:   h.myStats,

		actInventoryShow:    h.inventoryShow,
		actInventoryClear:   h.inventoryClear,
		actInventoryConfirm: h.inventoryConfirm,
		actCatalogView:      h.catalogView,
		actProductShow:      h.productShow,

		actReminderStatus:  h.reminderStatus,
		actReminderEnable:  h.reminderEnable,
		actReminderDisable: h.reminderDisable,
		actReminderJobs:    h.reminderJobs,
		actReminderReload:  h.reminderReload,

		actCustomerList:       h.customerList,
		actCustomerShow:       h.customerShow,
		actCustomerPurchases:  h.customerPurchases,
		actCustomerPurchase:   h.customerPurchase,
		actCustomerToggle:     h.customerToggle,
		actCustomerActivate:   h.startWizard(flows.SetCustomerStatus, withActive(true)),
		actCustomerDeactivate: h.startWizard(flows.SetCustomerStatus, withActive(false)),

		actProgramList: h.programList,
		actLevelList:   h.levelList,

		actUserList:    h.userList,
		actUserShow:    h.userShow,
		actRoleList:    h.roleList,
		actSystemStats: h.systemStats,

		actCleanupOwn:   h.cleanup(true, 30),
		actCleanupCount: h.cleanup(false, 10),
		actCleanupAll:   h.cleanup(false, 0),

		actReportCurrent: h.reportCurrent,
		actReportHistory: h.reportHistory,
		actReportRefresh: h.reportRefresh,
		actReportExpense: h.startWizard(flows.AddExpense, withReport),
		actReportCashIn:  h.startWizard(flows.SetCashIn, withReport),
		actReportOnline:  h.startWizard(flows.SetOnlineCash, withReport),
		actReportClose:   h.startWizard(flows.CloseShift, withReport),
	}

	for _, name := range menu.Names() {
		reg[menuAction(name)] = h.showMenu(name)
	}
	for _, kind := range flows.Kinds() {
		reg[wizardAction(kind)] = h.startWizard(kind, nil)
	}
	return reg
}

func withActive(active bool) func(dispatch.Request) []wizard.Pair {
	return func(dispatch.Request) []wizard.Pair {
		return []wizard.Pair{{Key: flows.FieldActive, Value: active}}
	}
}

func withReport(req dispatch.Request) []wizard.Pair {
	if req.ID() == 0 {
		return nil
	}
	return []wizard.Pair{{Key: flows.FieldReportID, Value: req.ID()}}
}
