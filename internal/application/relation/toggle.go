// Package relation implements the add/remove flow shared by favorites,
// shopping-cart entries and subscriptions: create or delete one
// uniqueness-constrained row linking the acting user to a target resource.
package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// Toggle parameterizes the flow for one relation kind. Each resource
// handler constructs a Toggle instead of inheriting shared behavior.
type Toggle struct {
	// Name appears in client-facing messages, e.g. "favorites".
	Name string

	// TargetKind names the target resource in not-found messages.
	TargetKind string

	Store outbound.PairStore

	// TargetExists checks the target resource before touching the
	// relation row.
	TargetExists func(ctx context.Context, id uuid.UUID) (bool, error)

	// CheckAdd runs extra validation before an add; subscriptions use it
	// to reject self-follow with a dedicated message.
	CheckAdd func(ownerID, targetID uuid.UUID) error
}

// Add creates the relation row. Adding twice fails: the caller is expected
// to know the current state, so a duplicate is an error rather than a
// silent success. A concurrent duplicate insert loses against the unique
// constraint and is reported the same way.
func (t *Toggle) Add(ctx context.Context, ownerID, targetID uuid.UUID) error {
	ok, err := t.TargetExists(ctx, targetID)
	if err != nil {
		return apperrors.NewDatabase("check target", err)
	}
	if !ok {
		return apperrors.NewNotFound(t.TargetKind)
	}

	if t.CheckAdd != nil {
		if err := t.CheckAdd(ownerID, targetID); err != nil {
			return err
		}
	}

	exists, err := t.Store.Exists(ctx, ownerID, targetID)
	if err != nil {
		return apperrors.NewDatabase("check relation", err)
	}
	if exists {
		return apperrors.NewAlreadyExists(fmt.Sprintf("already added to %s", t.Name))
	}

	if err := t.Store.Add(ctx, ownerID, targetID); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return apperrors.NewAlreadyExists(fmt.Sprintf("already added to %s", t.Name))
		}
		return apperrors.NewDatabase("add relation", err)
	}
	return nil
}

// Remove deletes the relation row. Removing an absent relation fails with
// a validation error, mirroring Add.
func (t *Toggle) Remove(ctx context.Context, ownerID, targetID uuid.UUID) error {
	ok, err := t.TargetExists(ctx, targetID)
	if err != nil {
		return apperrors.NewDatabase("check target", err)
	}
	if !ok {
		return apperrors.NewNotFound(t.TargetKind)
	}

	if err := t.Store.Remove(ctx, ownerID, targetID); err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return apperrors.NewValidation(fmt.Sprintf("there is no such entry in %s", t.Name))
		}
		return apperrors.NewDatabase("remove relation", err)
	}
	return nil
}
