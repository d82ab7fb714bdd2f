package models

import "time"

type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
	UserTypeHybrid UserType = "hybrid"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeBuyer, UserTypeSeller, UserTypeHybrid:
		return true
	}
	return false
}

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string      `gorm:"size:254" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Profile      UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user_profile"`
	CreatedAt    time.Time   `json:"created_at"`
}

// UserProfile holds marketplace role data, one row per user.
type UserProfile struct {
	ID       uint     `gorm:"primaryKey" json:"-"`
	UserID   uint     `gorm:"uniqueIndex;not null" json:"user"`
	UserType UserType `gorm:"type:VARCHAR(10);default:'buyer';not null" json:"user_type"`
}

// RefreshSession backs an issued refresh credential. Deleting the row
// revokes it.
type RefreshSession struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	TokenID   string    `gorm:"uniqueIndex;size:36;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
