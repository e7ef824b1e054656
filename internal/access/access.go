// Package access holds the transport independent authorization rules.
package access

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// Authorize reports whether caller holds one of roles. An empty role list
// admits any authenticated caller.
func Authorize(caller *Caller, roles ...string) bool {
	if caller == nil || caller.ID.IsZero() {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	return models.Contains(roles, caller.Role)
}

// IsOwner reports whether caller is the owning agent of a listing.
func IsOwner(caller *Caller, owner primitive.ObjectID) bool {
	return caller != nil && !caller.ID.IsZero() && caller.ID == owner
}

// OwnerOrAdmin reports whether caller owns the listing or is an admin.
func OwnerOrAdmin(caller *Caller, owner primitive.ObjectID) bool {
	return IsOwner(caller, owner) || caller.IsAdmin()
}

// Require returns an authentication error for anonymous callers and an
// authorization error for callers without one of roles.
func Require(caller *Caller, roles ...string) error {
	if caller == nil || caller.ID.IsZero() {
		return apperr.Unauthenticated("Not authorized")
	}
	if !Authorize(caller, roles...) {
		return apperr.Forbidden("Forbidden: insufficient permissions")
	}
	return nil
}
