package types

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleCaretaker UserRole = "caretaker"
)

// User is a caretaker synced from the external identity provider on first
// login. ExternalID is the provider's stable subject id.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null;column:external_id" json:"external_id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	Email      string    `gorm:"column:email" json:"email"`
	Role       UserRole  `gorm:"not null;column:role" json:"role"`
	AvatarURL  string    `gorm:"column:avatar_url" json:"avatar_url"`
	LastSeenAt *int64    `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
