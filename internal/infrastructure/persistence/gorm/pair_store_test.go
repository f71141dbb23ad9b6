package gorm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/backend/internal/ports/outbound"
	"github.com/foodgram/backend/test/testutils"
)

func TestFavoriteStore(t *testing.T) {
	db := testutils.OpenTestDB(t)
	store := gormrepo.NewFavoriteStore(db)
	u := testutils.CreateUser(t, db)
	rec := testutils.CreateRecipe(t, db, u)
	ctx := context.Background()

	exists, err := store.Exists(ctx, u.ID, rec.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Add(ctx, u.ID, rec.ID))

	exists, err = store.Exists(ctx, u.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = store.Add(ctx, u.ID, rec.ID)
	assert.ErrorIs(t, err, outbound.ErrDuplicate)

	targets, err := store.Targets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, rec.ID, targets[0])

	require.NoError(t, store.Remove(ctx, u.ID, rec.ID))
	err = store.Remove(ctx, u.ID, rec.ID)
	assert.ErrorIs(t, err, outbound.ErrNotFound)
}

func TestFollowStoreUsesFollowColumns(t *testing.T) {
	db := testutils.OpenTestDB(t)
	store := gormrepo.NewFollowStore(db)
	follower := testutils.CreateUser(t, db)
	followee := testutils.CreateUser(t, db)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, follower.ID, followee.ID))

	// The relation is directional.
	exists, err := store.Exists(ctx, followee.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	targets, err := store.Targets(ctx, follower.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, followee.ID, targets[0])
}

func TestShoppingCartStoreIsIndependentOfFavorites(t *testing.T) {
	db := testutils.OpenTestDB(t)
	favorites := gormrepo.NewFavoriteStore(db)
	carts := gormrepo.NewShoppingCartStore(db)
	u := testutils.CreateUser(t, db)
	rec := testutils.CreateRecipe(t, db, u)
	ctx := context.Background()

	require.NoError(t, favorites.Add(ctx, u.ID, rec.ID))

	inCart, err := carts.Exists(ctx, u.ID, rec.ID)
	require.NoError(t, err)
	assert.False(t, inCart)
}
