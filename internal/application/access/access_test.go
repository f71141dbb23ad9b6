package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/domain/user"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

func TestRequireActive(t *testing.T) {
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetCode(RequireActive(nil)))
	assert.Equal(t, apperrors.CodeForbidden,
		apperrors.GetCode(RequireActive(&user.Identity{ID: uuid.New(), IsActive: false})))
	require.NoError(t, RequireActive(&user.Identity{ID: uuid.New(), IsActive: true}))
}

func TestRequireStaff(t *testing.T) {
	assert.Equal(t, apperrors.CodeForbidden,
		apperrors.GetCode(RequireStaff(&user.Identity{ID: uuid.New(), IsActive: true})))
	require.NoError(t, RequireStaff(&user.Identity{ID: uuid.New(), IsActive: true, IsStaff: true}))

	// Deactivated staff are still locked out.
	assert.Equal(t, apperrors.CodeForbidden,
		apperrors.GetCode(RequireStaff(&user.Identity{ID: uuid.New(), IsStaff: true})))
}

func TestRequireOwnerOrStaff(t *testing.T) {
	ownerID := uuid.New()
	owner := &user.Identity{ID: ownerID, IsActive: true}
	staff := &user.Identity{ID: uuid.New(), IsActive: true, IsStaff: true}
	other := &user.Identity{ID: uuid.New(), IsActive: true}

	require.NoError(t, RequireOwnerOrStaff(owner, ownerID))
	require.NoError(t, RequireOwnerOrStaff(staff, ownerID))
	assert.Equal(t, apperrors.CodeForbidden, apperrors.GetCode(RequireOwnerOrStaff(other, ownerID)))
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetCode(RequireOwnerOrStaff(nil, ownerID)))
}
