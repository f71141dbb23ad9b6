// Package user defines the account and subscription entities.
package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account row. Accounts are registered through the external
// identity provider; this service reads them and admins may soft-ban by
// clearing IsActive. Rows are never hard-deleted in the normal flow.
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	FirstName string    `gorm:"type:varchar(150);not null"`
	LastName  string    `gorm:"type:varchar(150);not null"`
	IsActive  bool      `gorm:"default:true"`
	IsStaff   bool      `gorm:"default:false"`
	CreatedAt time.Time
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// Follow links a follower to a followee author. The composite primary key
// rejects duplicate subscriptions under concurrent adds; the check
// constraint rejects self-follow at the storage level.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:char(36);primaryKey;check:chk_follow_not_self,follower_id <> followee_id"`
	FolloweeID uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt  time.Time

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followee User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (Follow) TableName() string {
	return "follows"
}

// Identity is the authenticated caller as seen by permission checks.
// Anonymous requests carry no Identity at all.
type Identity struct {
	ID       uuid.UUID
	IsActive bool
	IsStaff  bool
}
