package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmailTaken signals a uniqueness violation on the user email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are intentionally indistinguishable so the
	// API cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrAnimalNotFound  = errors.New("animal not found")

	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports missing or malformed client input. When Fields is
// non-empty the message enumerates the missing field names.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// NewValidationError builds a ValidationError with an optional list of
// offending field names.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
