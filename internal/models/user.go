package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents one registered principal.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	// Password holds the bcrypt hash, never the plaintext.
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required"`
	// PasswordChangedAt invalidates tokens issued before the password change.
	PasswordChangedAt *time.Time `json:"-"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
