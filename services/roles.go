package services

import "strings"

const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Actor is the caller identity forwarded by the gateway.
type Actor struct {
	ID    string
	Roles []string
}

// HasAnyRole reports whether roles contains one of want, case-insensitively.
func HasAnyRole(roles []string, want ...string) bool {
	for _, r := range roles {
		for _, w := range want {
			if strings.EqualFold(strings.TrimSpace(r), w) {
				return true
			}
		}
	}
	return false
}

// CanSettle reports whether the actor may commit a settlement.
func (a Actor) CanSettle() bool {
	return HasAnyRole(a.Roles, RoleAdmin, RoleSuperAdmin)
}
