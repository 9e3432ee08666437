package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an identity record in the system.
// Role is one of config.RoleAdmin, config.RoleOfficer or config.RoleUser;
// at most one user may hold the admin role at any time.
type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Name is the optional display name chosen at signup.
	Name string `json:"name"`
	Role string `gorm:"index;not null" json:"role"`
	// PasswordHash is the bcrypt hash of the signup password.
	PasswordHash string `json:"-"`
	// TelegramChatID, when linked, receives assignment notifications.
	TelegramChatID int64     `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	RoleUpdatedAt  time.Time `json:"roleUpdatedAt"`
}

// BeforeCreate is a GORM hook that generates a UUID for the user
// if the ID has not been set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// DisplayName returns the name to render for the user:
// name, falling back to email, falling back to the raw ID.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
