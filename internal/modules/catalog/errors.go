package catalog

import "errors"

var (
	ErrNotFound   = errors.New("room not found")
	ErrValidation = errors.New("validation error")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
