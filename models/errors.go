package models

import "github.com/pkg/errors"

// Domain error taxonomy. Handlers wrap these with context via
// errors.Wrap; controllers translate them to HTTP statuses.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidRole  = errors.New("role is not allowed to perform this operation")
	ErrInvalidState = errors.New("operation is not allowed in the current state")
	ErrValidation   = errors.New("request validation failed")
)

func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation)
}
