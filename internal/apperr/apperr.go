// Package apperr defines the sentinel errors services return and
// controllers translate into HTTP status codes.
package apperr

import "errors"

var (
	// ErrNotFound signals a missing test, attempt or question.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a malformed payload or a wrong-state operation.
	ErrValidation = errors.New("validation failed")
	// ErrPermission signals an ownership mismatch on an attempt.
	ErrPermission = errors.New("permission denied")
	// ErrAuthentication signals a request without an authenticated caller.
	ErrAuthentication = errors.New("authentication required")
)
