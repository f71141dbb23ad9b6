// Package access holds the permission predicates applied before mutations.
// They compose in a fixed order: active check first, then staff or
// ownership; read-only requests bypass them entirely at the routing layer.
package access

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain/user"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// RequireActive rejects anonymous callers and soft-banned accounts.
func RequireActive(actor *user.Identity) error {
	if actor == nil {
		return apperrors.NewUnauthorized("")
	}
	if !actor.IsActive {
		return apperrors.NewForbidden("your account is deactivated")
	}
	return nil
}

// RequireStaff allows only active staff accounts.
func RequireStaff(actor *user.Identity) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	if !actor.IsStaff {
		return apperrors.NewForbidden("")
	}
	return nil
}

// RequireOwnerOrStaff allows the resource owner and active staff accounts.
func RequireOwnerOrStaff(actor *user.Identity, ownerID uuid.UUID) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	if actor.IsStaff || actor.ID == ownerID {
		return nil
	}
	return apperrors.NewForbidden("")
}
