package menu

// Reply keyboard labels. A label is the control identifier routed by the
// access router, so every label must be unique.
const (
	Inventory      = "📦 Инвентаризация"
	Reminders      = "⏰ Напоминания"
	Customers      = "👥 Клиенты"
	BonusSystem    = "🎁 Бонусная система"
	Administration = "⚙️ Администрирование"
	Tools          = "🔧 Инструменты"
	Reports        = "📊 Отчеты"
	Profile        = "👤 Профиль"
	MyBonuses      = "🎫 Мои бонусы"
	MyStats        = "🏆 Моя статистика"
	Exit           = "🚪 Выход"
	BackToMain     = "🔙 Назад в главное меню"

	InventoryList    = "📋 Список товаров"
	AddItem          = "➕ Добавить товар"
	ClearInventory   = "🔄 Сбросить список"
	ConfirmInventory = "✅ Подтвердить инвентаризацию"
	Catalog          = "📁 Управление справочником"
	BackToInventory  = "🔙 Назад в Инвентаризацию"

	ViewCatalog   = "📋 Просмотр справочника"
	AddCatalog    = "➕ Добавить в справочник"
	EditCatalog   = "✏️ Редактировать товар"
	DeleteCatalog = "🗑️ Удалить из справочника"
	EditCategory  = "🔄 Изменить категорию"

	ReminderStatus = "📊 Текущий статус напоминаний"
	SetupSchedule  = "📅 Настроить расписание"
	StartReminders = "🔔 Включить напоминания"
	StopReminders  = "🔕 Выключить напоминания"
	CheckJobs      = "📋 Проверить задания"
	ReloadJobs     = "🔄 Перезагрузить задания"
	CheckStock     = "📦 Проверить остатки"
	StartInventory = "🔄 Начать инвентаризацию"
	OwnVariant     = "➕ Свой вариант"

	RegisterCustomer   = "👤 Регистрация клиента"
	CustomersList      = "📋 Список клиентов"
	SearchCustomer     = "🔍 Поиск клиента"
	AddPurchase        = "💰 Начислить покупку"
	ActivateCustomer   = "✅ Активация клиента"
	DeactivateCustomer = "❌ Деактивация клиента"
	NewSearch          = "🔍 Новый поиск"
	BackToCustomers    = "🔙 Назад к клиентам"

	SearchByCard  = "💳 Поиск по карте"
	SearchByPhone = "📱 Поиск по телефону"
	SearchByName  = "👤 Поиск по имени"
	SearchByID    = "🆔 Поиск по ID"

	ProgramsManagement = "⚙️ Управление программами"
	LevelsSettings     = "📊 Настройка уровней"
	ListPrograms       = "📋 Список программ"
	AddProgram         = "➕ Создать программу"
	ListLevels         = "📋 Список уровней"
	AddLevel           = "➕ Создать уровень"
	DeleteLevel        = "🗑️ Удалить уровень"
	BackToBonus        = "🔙 Назад к бонусной системе"

	UserManagement = "👥 Управление пользователями"
	RoleManagement = "🎭 Управление ролями"
	SystemStats    = "📊 Статистика системы"
	AllUsers       = "📋 Список пользователей"
	EditUser       = "✏️ Изменить пользователя"
	DeleteUser     = "🗑️ Удалить пользователя"
	AllRoles       = "📋 Список ролей"
	SetRoles       = "🎯 Назначение ролей"
	BackToAdmin    = "🔙 Назад к администрированию"

	CleanupAll   = "🗑️ Удалить все сообщения"
	CleanupOwn   = "👤 Удалить только свои сообщения"
	CleanupCount = "🔢 Удалить 10 сообщений"

	OpenShift     = "🔔 Открыть смену"
	CloseShift    = "🔕 Закрыть смену"
	CurrentShift  = "📋 Текущая смена"
	ReportHistory = "📊 История отчетов"

	Cancel = "❌ Отмена"
	Yes    = "✅ Да"
	No     = "❌ Нет"
	Skip   = "Пропустить"
)

// Slash commands
const (
	StartCommand  = "/start"
	CancelCommand = "/cancel"
	SkipCommand   = "/skip"
)
