package repositories

import (
	"errors"

	"authapi/internal/models"
)

// Sentinel errors returned by UserRepository implementations. The unique
// constraints of the backing store are the final arbiter for duplicates;
// implementations must map constraint violations to ErrDuplicate.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
