package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrCapacityConflict = errors.New("requested rooms no longer available")
	ErrNotFound         = errors.New("booking not found")
	ErrNotPending       = errors.New("booking is not pending")
)

// FieldError carries a user-facing message for a rejected checkout.
type FieldError struct {
	Message string
	kind    error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.kind }

func invalid(msg string) error {
	return &FieldError{Message: msg, kind: ErrValidation}
}

func conflict(msg string) error {
	return &FieldError{Message: msg, kind: ErrCapacityConflict}
}
