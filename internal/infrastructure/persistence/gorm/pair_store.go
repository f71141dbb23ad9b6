package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/ports/outbound"
)

// PairStore is the single storage implementation behind favorites,
// shopping-cart entries and follows: a uniqueness-constrained
// (owner, target) row, parameterized by table and column names.
type PairStore struct {
	db        *gorm.DB
	table     string
	ownerCol  string
	targetCol string
}

// NewFavoriteStore creates the store for favorite rows.
func NewFavoriteStore(db *gorm.DB) *PairStore {
	return &PairStore{db: db, table: recipe.Favorite{}.TableName(), ownerCol: "user_id", targetCol: "recipe_id"}
}

// NewShoppingCartStore creates the store for shopping-cart rows.
func NewShoppingCartStore(db *gorm.DB) *PairStore {
	return &PairStore{db: db, table: recipe.ShoppingCart{}.TableName(), ownerCol: "user_id", targetCol: "recipe_id"}
}

// NewFollowStore creates the store for follow rows.
func NewFollowStore(db *gorm.DB) *PairStore {
	return &PairStore{db: db, table: user.Follow{}.TableName(), ownerCol: "follower_id", targetCol: "followee_id"}
}

// Exists reports whether the (owner, target) row is present.
func (s *PairStore) Exists(ctx context.Context, ownerID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.ownerCol, s.targetCol), ownerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the row. A duplicate pair, including one inserted by a
// concurrent request after our existence check, comes back as
// outbound.ErrDuplicate via the primary-key constraint.
func (s *PairStore) Add(ctx context.Context, ownerID, targetID uuid.UUID) error {
	row := map[string]any{
		s.ownerCol:   ownerID,
		s.targetCol:  targetID,
		"created_at": time.Now(),
	}
	err := s.db.WithContext(ctx).Table(s.table).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicate
	}
	return err
}

// Remove deletes the row, reporting outbound.ErrNotFound when it was
// never there.
func (s *PairStore) Remove(ctx context.Context, ownerID, targetID uuid.UUID) error {
	result := s.db.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", s.table, s.ownerCol, s.targetCol),
		ownerID, targetID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// Targets returns every target id the owner has added.
func (s *PairStore) Targets(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var targets []uuid.UUID
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where(fmt.Sprintf("%s = ?", s.ownerCol), ownerID).
		Pluck(s.targetCol, &targets).Error
	return targets, err
}
