package domain

import "errors"

// Sentinel errors for the application. Ownership mismatch is reported as
// ErrNotFound so callers cannot probe for resources they do not own.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("resource already resolved")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal server error")
)
