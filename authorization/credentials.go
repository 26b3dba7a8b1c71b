package authorization

import (
	"bloggy-api/apperror"
	"bloggy-api/lookups"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Functions to check permissions
// without dependencies to the User Model

// Credentials of the signed-in user, set by the token middleware
type Credentials struct {
	UserID primitive.ObjectID
	Role   string
}

// IsAdmin
func (c Credentials) IsAdmin() bool {
	return c.Role == lookups.RoleAdmin
}

// IsOwner reports whether the user created the item
func (c Credentials) IsOwner(owner primitive.ObjectID) bool {
	return !c.UserID.IsZero() && c.UserID == owner
}

// CanModify allows owners and admins
func (c Credentials) CanModify(owner primitive.ObjectID) bool {
	return c.IsOwner(owner) || c.IsAdmin()
}

// MustModify returns FORBIDDEN unless CanModify
func (c Credentials) MustModify(owner primitive.ObjectID) error {
	if !c.CanModify(owner) {
		return apperror.Forbidden("not allowed to modify this item")
	}
	return nil
}

// MustBeAdmin returns FORBIDDEN for everybody but admins
func (c Credentials) MustBeAdmin() error {
	if !c.IsAdmin() {
		return apperror.Forbidden("admin only")
	}
	return nil
}
