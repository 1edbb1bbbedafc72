package access

import (
	"testing"

	"baristabot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesOf_EveryRoleHasEntry(t *testing.T) {
	for _, role := range domain.Roles() {
		_, ok := rolePermissions[role]
		assert.True(t, ok, "role %s has no permission entry", role)
	}
}

func TestCapabilitiesOf_ViewProfileForEveryRole(t *testing.T) {
	for _, role := range domain.Roles() {
		assert.True(t, CapabilitiesOf(role).Has(domain.CapViewProfile), role)
	}
}

func TestCapabilitiesOf_GuestIsFloor(t *testing.T) {
	guest := CapabilitiesOf(domain.RoleGuest)
	for _, role := range domain.Roles() {
		caps := CapabilitiesOf(role)
		for c := range guest {
			assert.True(t, caps.Has(c), "%s lacks guest capability %s", role, c)
		}
	}
}

func TestCapabilitiesOf_UnknownRoleIsGuest(t *testing.T) {
	assert.Equal(t, CapabilitiesOf(domain.RoleGuest), CapabilitiesOf(domain.Role("owner")))
}

func TestCapabilitiesOf_ReturnsCopy(t *testing.T) {
	caps := CapabilitiesOf(domain.RoleGuest)
	caps[domain.CapManageRoles] = struct{}{}

	assert.False(t, RoleHas(domain.RoleGuest, domain.CapManageRoles))
}

func TestCapabilitiesOf_AdminHasAll(t *testing.T) {
	admin := CapabilitiesOf(domain.RoleAdmin)
	for _, c := range domain.Capabilities() {
		assert.True(t, admin.Has(c), c)
	}
}

func TestCapabilitiesOf_ManagerAndBaristaDiffer(t *testing.T) {
	tests := []struct {
		capability domain.Capability
		manager    bool
		barista    bool
	}{
		{domain.CapConfirmInventory, true, false},
		{domain.CapManageReports, true, false},
		{domain.CapManageBonuses, true, false},
		{domain.CapManageInventory, true, true},
		{domain.CapManageRoles, false, false},
		{domain.CapCleanupChat, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.capability), func(t *testing.T) {
			assert.Equal(t, tt.manager, RoleHas(domain.RoleManager, tt.capability))
			assert.Equal(t, tt.barista, RoleHas(domain.RoleBarista, tt.capability))
		})
	}
}
