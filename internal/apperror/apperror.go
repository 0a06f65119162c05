package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrDuplicate  = errors.New("duplicate")
	ErrForbidden  = errors.New("forbidden")

	// ErrUnauthenticated is the umbrella for every 401 condition. The auth
	// package defines finer-grained sentinels (missing token, expired token,
	// CSRF mismatch, ...) that all wrap this one, so the HTTP layer can map
	// the whole family to 401 with a single errors.Is check while logs keep
	// the precise cause.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Duplicate returns an AppError for a unique-constraint violation.
// The message names the colliding field ("Email already registered",
// "Username already taken") so the client can show a field-specific error.
func Duplicate(field, message string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated returns an AppError for a failed session check. cause is
// the fine-grained sentinel (auth.ErrTokenExpired etc.); it stays in the
// chain for diagnostics but the message is what the client sees.
func Unauthenticated(cause error, message string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUnauthenticated, cause),
		Message: message,
	}
}
