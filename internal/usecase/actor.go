package usecase

import (
	"github.com/google/uuid"

	"turf-hire/internal/domain/user"
)

// Actor is the authenticated caller of a usecase.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   user.Role
}

func (a Actor) Authenticated() bool { return a.UserID != uuid.Nil }

func (a Actor) IsAdmin() bool { return a.Authenticated() && a.Role == user.RoleAdmin }

func (a Actor) Is(role user.Role) bool { return a.Authenticated() && a.Role == role }

func requireRole(a Actor, role user.Role) error {
	if !a.Authenticated() {
		return ErrUnauthorized
	}
	if a.Role != role {
		return ErrForbidden
	}
	return nil
}
