// Package policy holds the role-based access decision logic as pure
// functions so every rule combination is table-testable. Handlers and
// middleware call these explicitly instead of relying on implicit
// dispatch.
package policy

import (
	"github.com/mpetrenko/visitboard/internal/constants"
	"github.com/mpetrenko/visitboard/internal/models"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

// Decide evaluates the access rules in order:
//
//  1. no principal -> Deny
//  2. principal is Admin -> Allow
//  3. requiredRole is Admin -> Deny
//  4. ownerID given -> Allow iff the principal owns the resource;
//     a role-less principal keeps self-access this way
//  5. requiredRole is User and principal has the User role -> Allow
//  6. otherwise -> Deny
func Decide(principal *models.User, requiredRole string, ownerID *uint64) Decision {
	if principal == nil {
		return Deny
	}
	if principal.IsAdmin() {
		return Allow
	}
	if requiredRole == constants.RoleAdmin {
		return Deny
	}
	if ownerID != nil {
		if principal.ID == *ownerID {
			return Allow
		}
		return Deny
	}
	if requiredRole == constants.RoleUser && principal.RoleName() == constants.RoleUser {
		return Allow
	}
	return Deny
}

// CanDeleteUser forbids self-deletion regardless of role, on top of the
// Admin requirement enforced by Decide.
func CanDeleteUser(principal *models.User, targetID uint64) bool {
	if !Decide(principal, constants.RoleAdmin, nil).Allowed() {
		return false
	}
	return principal.ID != targetID
}

// CanAssignRole reports whether the principal may change a user's role
// during an edit. Non-admins editing themselves keep their role as is.
func CanAssignRole(principal *models.User) bool {
	return principal != nil && principal.IsAdmin()
}
