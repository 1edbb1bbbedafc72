package access

import "baristabot/internal/domain"

// CapabilitySet is an immutable view of a role's capabilities
type CapabilitySet map[domain.Capability]struct{}

// Has reports whether c is in the set
func (s CapabilitySet) Has(c domain.Capability) bool {
	_, ok := s[c]
	return ok
}

func setOf(caps ...domain.Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// rolePermissions must have an entry for every domain.Roles() value
var rolePermissions = map[domain.Role]CapabilitySet{
	domain.RoleAdmin: setOf(domain.Capabilities()...),
	domain.RoleManager: setOf(
		domain.CapViewInventory,
		domain.CapManageInventory,
		domain.CapConfirmInventory,
		domain.CapViewReminders,
		domain.CapManageReminders,
		domain.CapViewReports,
		domain.CapManageReports,
		domain.CapViewBonuses,
		domain.CapManageBonuses,
		domain.CapManageCustomers,
		domain.CapViewProfile,
	),
	domain.RoleBarista: setOf(
		domain.CapViewInventory,
		domain.CapManageInventory,
		domain.CapViewReminders,
		domain.CapManageReminders,
		domain.CapViewBonuses,
		domain.CapViewReports,
		domain.CapManageCustomers,
		domain.CapViewProfile,
	),
	domain.RoleVisitor: setOf(
		domain.CapViewBonuses,
		domain.CapViewProfile,
	),
	domain.RoleGuest: setOf(
		domain.CapViewProfile,
	),
}

// CapabilitiesOf returns the capabilities granted to role.
// Unknown roles get the Guest set.
func CapabilitiesOf(role domain.Role) CapabilitySet {
	caps, ok := rolePermissions[role]
	if !ok {
		caps = rolePermissions[domain.RoleGuest]
	}

	out := make(CapabilitySet, len(caps))
	for c := range caps {
		out[c] = struct{}{}
	}
	return out
}

// RoleHas reports whether role grants c
func RoleHas(role domain.Role, c domain.Capability) bool {
	caps, ok := rolePermissions[role]
	if !ok {
		caps = rolePermissions[domain.RoleGuest]
	}
	return caps.Has(c)
}
