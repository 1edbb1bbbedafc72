package access

import (
	"context"
	"fmt"

	"baristabot/internal/domain"
)

// RoleResolver answers the current role of a user
type RoleResolver interface {
	RoleOf(ctx context.Context, userID int64) domain.Role
}

// Route binds a control identifier to a named action
type Route struct {
	ControlID   string
	Action      string
	Requirement Requirement
}

// Decision is the outcome of resolving a control
type Decision int

const (
	Unknown Decision = iota
	Denied
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Resolution is returned by Router.Resolve
type Resolution struct {
	Decision Decision
	Action   string
	Role     domain.Role
}

// Router maps control identifiers to actions after an access check.
// The table is fixed at construction.
type Router struct {
	resolver RoleResolver
	routes   map[string]Route
}

// NewRouter builds the route table. Duplicate control identifiers are rejected.
func NewRouter(resolver RoleResolver, routes ...Route) (*Router, error) {
	r := &Router{
		resolver: resolver,
		routes:   make(map[string]Route, len(routes)),
	}

	for _, route := range routes {
		if route.ControlID == "" {
			return nil, fmt.Errorf("route for action %q has empty control id", route.Action)
		}
		if route.Action == "" {
			return nil, fmt.Errorf("route %q has empty action", route.ControlID)
		}
		if existing, dup := r.routes[route.ControlID]; dup {
			return nil, fmt.Errorf("duplicate control id %q (actions %q and %q)",
				route.ControlID, existing.Action, route.Action)
		}
		r.routes[route.ControlID] = route
	}

	return r, nil
}

// Resolve looks up controlID and evaluates its requirement for userID
func (r *Router) Resolve(ctx context.Context, userID int64, controlID string) Resolution {
	route, ok := r.routes[controlID]
	if !ok {
		return Resolution{Decision: Unknown}
	}

	role := r.resolver.RoleOf(ctx, userID)
	if !route.Requirement.Allows(role) {
		return Resolution{Decision: Denied, Action: route.Action, Role: role}
	}
	return Resolution{Decision: Allowed, Action: route.Action, Role: role}
}

// Permitted reports whether role may use controlID. Unknown controls are not permitted.
func (r *Router) Permitted(role domain.Role, controlID string) bool {
	route, ok := r.routes[controlID]
	return ok && route.Requirement.Allows(role)
}

// Lookup returns the route registered for controlID
func (r *Router) Lookup(controlID string) (Route, bool) {
	route, ok := r.routes[controlID]
	return route, ok
}

