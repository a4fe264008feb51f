package services

import "errors"

// Errors returned by the auth workflow and token manager. Handlers map these
// to HTTP statuses with errors.Is; everything not listed here is treated as
// an internal failure.
var (
	// ErrDuplicateUser means the username or email is already registered.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials is intentionally generic: the caller cannot tell
	// an unknown identifier from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid covers malformed tokens, bad signatures, and unexpected
	// signing algorithms.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired means the token was well-formed and correctly signed
	// but past its expiry (or issued before the user's last password change).
	ErrTokenExpired = errors.New("token expired")
)
