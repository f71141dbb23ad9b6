package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain/user"
)

// Favorite marks a recipe as favorited by a user. The composite primary
// key is the sole guard against duplicate adds under races.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time

	User   user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart marks a recipe as queued for shopping by a user.
type ShoppingCart struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time

	User   user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
