// Package recipe defines the recipe aggregate and its reference data.
package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/user"
)

// Tag is admin-managed reference data used to filter recipes. Name, color
// and slug are each unique.
type Tag struct {
	ID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name  string    `gorm:"type:varchar(200);uniqueIndex;not null"`
	Color string    `gorm:"type:varchar(7);uniqueIndex;not null"`
	Slug  string    `gorm:"type:varchar(200);uniqueIndex;not null"`
}

// BeforeCreate assigns the primary key.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Tag) TableName() string {
	return "tags"
}

// Ingredient is reference data, unique by name.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(200);uniqueIndex;not null"`
	MeasurementUnit string    `gorm:"type:varchar(200);not null"`
}

// BeforeCreate assigns the primary key.
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Ingredient) TableName() string {
	return "ingredients"
}

// Recipe is owned by its author. Tags attach through recipe_tags and
// ingredient amounts through recipe_ingredients; deleting the recipe or
// the author cascades to both.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Image       string    `gorm:"type:text"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1"`
	CreatedAt   time.Time `gorm:"index"`

	Author      user.User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the primary key.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient ties one recipe to one ingredient with a positive
// amount. The composite primary key allows at most one row per
// (recipe, ingredient) pair; duplicate ingredients in a submission are
// rejected at validation time, never merged.
type RecipeIngredient struct {
	RecipeID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	IngredientID uuid.UUID `gorm:"type:char(36);primaryKey"`
	Amount       int       `gorm:"not null;check:amount >= 1"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
