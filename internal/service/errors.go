package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPinNotFound       = errors.New("pin not found")
	ErrRequestNotFound   = errors.New("event request not found")
	ErrDuplicateRequest  = errors.New("a pending request already exists for this sender, receiver and pin")
	ErrInvalidStatus     = errors.New("status must be accepted or declined")
	ErrInvalidTransition = errors.New("event request was already resolved with a different decision")
)

// ValidationError is a user-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func required(field string) error {
	return invalid(field, "is required")
}

// isClientError reports whether err is one of the errors above, which are
// returned as-is. Anything else is a storage failure.
func isClientError(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	for _, target := range []error{
		ErrUserNotFound,
		ErrPinNotFound,
		ErrRequestNotFound,
		ErrDuplicateRequest,
		ErrInvalidStatus,
		ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
