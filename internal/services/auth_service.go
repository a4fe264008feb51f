package services

import (
	"errors"
	"fmt"
	"strings"

	"authapi/internal/config"
	"authapi/internal/logging"
	"authapi/internal/models"
	"authapi/internal/repositories"
)

// EventPublisher publishes auth audit events to a message broker.
// A nil publisher disables event publishing.
type EventPublisher interface {
	PublishAuthEvent(event string, payload map[string]interface{}) error
}

// AuthService orchestrates registration and login.
type AuthService struct {
	userRepo   repositories.UserRepository
	hasher     *PasswordHasher
	tokens     *TokenManager
	events     EventPublisher
	log        logging.Logger
	loginField string

	// dummyHash is compared against when login targets an unknown user, so
	// the unknown-user path costs a bcrypt verification like the known-user
	// path does.
	dummyHash string
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenManager,
	events EventPublisher,
	log logging.Logger,
	loginField string,
) (*AuthService, error) {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare hasher: %w", err)
	}
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		events:     events,
		log:        log,
		loginField: loginField,
		dummyHash:  dummyHash,
	}, nil
}

// RegisterInput carries the registration fields after HTTP-level validation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register checks uniqueness, hashes the password and persists a new user.
// Hashing happens here, explicitly, on the only path that sets a password;
// the repository layer never re-hashes. The uniqueness pre-check is advisory:
// two concurrent registrations can both pass it, and the store's unique
// constraint settles the race, surfacing as ErrDuplicateUser.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if taken, err := s.identifierTaken(username, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateUser
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	s.publish("user.registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Login authenticates by the configured identifier field and returns a signed
// token. Unknown identifier and wrong password produce the same error.
func (s *AuthService) Login(identifier, password string) (string, error) {
	var (
		user *models.User
		err  error
	)
	if s.loginField == config.LoginFieldEmail {
		user, err = s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(identifier)))
	} else {
		user, err = s.userRepo.GetByUsername(strings.TrimSpace(identifier))
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Burn a comparison so this path is not observably cheaper.
			s.hasher.Verify(password, s.dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to fetch user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.publish("user.login", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return token, nil
}

func (s *AuthService) identifierTaken(username, email string) (bool, error) {
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return true, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return true, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return false, nil
}

// publish sends an audit event when a publisher is wired. Publishing is
// best-effort: broker failures are logged, never surfaced to the caller.
func (s *AuthService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAuthEvent(event, payload); err != nil {
		s.log.Warn("failed to publish auth event", "event", event, "error", err)
	}
}
