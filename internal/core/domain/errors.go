package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)
	ErrLeadNotFound    = fmt.Errorf("lead %w", ErrNotFound)
	ErrInvoiceNotFound = fmt.Errorf("invoice %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("admin privileges are required for this action")
	ErrValidation         = errors.New("validation failed")
)

// NewValidationError reports a field constraint violation. The result matches
// ErrValidation with errors.Is.
func NewValidationError(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, msg)
}
