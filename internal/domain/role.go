package domain

import "strings"

// Role is a named bundle of capabilities assigned to a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleBarista Role = "barista"
	RoleVisitor Role = "visitor"
	RoleGuest   Role = "guest"
)

// Roles lists every role in display order
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleBarista, RoleVisitor, RoleGuest}
}

// ParseRole converts a stored or typed value into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles() {
		if r == known {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// DisplayName returns user-facing role name
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "👑 Администратор"
	case RoleManager:
		return "👔 Менеджер"
	case RoleBarista:
		return "☕ Бариста"
	case RoleVisitor:
		return "👤 Клиент"
	default:
		return "👤 Гость"
	}
}

// Capability is a named permission bit
type Capability string

const (
	CapViewInventory    Capability = "view_inventory"
	CapManageInventory  Capability = "manage_inventory"
	CapConfirmInventory Capability = "confirm_inventory"
	CapViewReminders    Capability = "view_reminders"
	CapManageReminders  Capability = "manage_reminders"
	CapManageSystem     Capability = "manage_system"
	CapCleanupChat      Capability = "cleanup_chat"
	CapViewReports      Capability = "view_reports"
	CapManageReports    Capability = "manage_reports"
	CapViewBonuses      Capability = "view_bonuses"
	CapManageBonuses    Capability = "manage_bonuses"
	CapManageUsers      Capability = "manage_users"
	CapManageRoles      Capability = "manage_roles"
	CapManageCustomers  Capability = "manage_customers"
	CapViewProfile      Capability = "view_profile"
)

// Capabilities lists every capability
func Capabilities() []Capability {
	return []Capability{
		CapViewInventory, CapManageInventory, CapConfirmInventory,
		CapViewReminders, CapManageReminders,
		CapManageSystem, CapCleanupChat,
		CapViewReports, CapManageReports,
		CapViewBonuses, CapManageBonuses,
		CapManageUsers, CapManageRoles,
		CapManageCustomers,
		CapViewProfile,
	}
}
