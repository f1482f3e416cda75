// Package apperr defines the error taxonomy shared by the service layer
// and the HTTP boundary. Services return these kinds; controllers map
// them to status codes without leaking internal detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the request carries no valid identity.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden means the identity is valid but not allowed to act.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidAction means the requested action is outside the allowed set.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidTransition means the entity is in a terminal state for the
	// requested transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidFilter means a query filter is malformed.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrAlreadyExists means the entity is already present.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UploadError wraps a media store failure that aborted the operation.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "media upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
