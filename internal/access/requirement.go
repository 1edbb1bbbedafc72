package access

import (
	"fmt"

	"baristabot/internal/domain"
)

type requirementKind int

const (
	kindNone requirementKind = iota
	kindCapability
	kindRole
	kindRoleExcept
	kindRoleAndCapability
)

// Requirement is the access rule attached to a menu route
type Requirement struct {
	kind       requirementKind
	role       domain.Role
	capability domain.Capability
}

// None allows everyone
func None() Requirement {
	return Requirement{kind: kindNone}
}

// NeedCapability allows roles granting c
func NeedCapability(c domain.Capability) Requirement {
	return Requirement{kind: kindCapability, capability: c}
}

// OnlyRole allows exactly role r
func OnlyRole(r domain.Role) Requirement {
	return Requirement{kind: kindRole, role: r}
}

// ExceptRole allows every role but r
func ExceptRole(r domain.Role) Requirement {
	return Requirement{kind: kindRoleExcept, role: r}
}

// RoleAndCapability requires role r that also grants c
func RoleAndCapability(r domain.Role, c domain.Capability) Requirement {
	return Requirement{kind: kindRoleAndCapability, role: r, capability: c}
}

// Allows evaluates the requirement for a resolved role
func (q Requirement) Allows(role domain.Role) bool {
	switch q.kind {
	case kindNone:
		return true
	case kindCapability:
		return RoleHas(role, q.capability)
	case kindRole:
		return role == q.role
	case kindRoleExcept:
		return role != q.role
	case kindRoleAndCapability:
		return RoleHas(role, q.capability) && role == q.role
	default:
		return false
	}
}

func (q Requirement) String() string {
	switch q.kind {
	case kindNone:
		return "none"
	case kindCapability:
		return fmt.Sprintf("capability(%s)", q.capability)
	case kindRole:
		return fmt.Sprintf("role(%s)", q.role)
	case kindRoleExcept:
		return fmt.Sprintf("role(!%s)", q.role)
	case kindRoleAndCapability:
		return fmt.Sprintf("role(%s)+capability(%s)", q.role, q.capability)
	default:
		return "invalid"
	}
}
