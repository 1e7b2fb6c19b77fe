package domain

import "errors"

// Validation errors. They are always returned wrapped in a *ValidationError.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidLength      = errors.New("invalid length")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password format")
)

// Conflict and authentication errors.
var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("invalid password")
	ErrInvalidLogin    = errors.New("invalid login data")
	ErrUnauthenticated = errors.New("not authenticated")
)

// Rate-limit errors.
var (
	ErrTooManyRequests = errors.New("too many requests")
	ErrInvalidSession  = errors.New("invalid session")
)

// Infrastructure errors. These are the only ones answered with a 5xx.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrHashing          = errors.New("hashing error")
)

// ErrSessionNotFound is returned by session stores for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports the first registration rule an input violated.
type ValidationError struct {
	Field   string
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a registration validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
