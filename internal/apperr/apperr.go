// Package apperr holds the error taxonomy shared by every domain package.
// Domain packages wrap these sentinels with context; the HTTP layer maps
// them to status codes with errors.Is.
package apperr

import "errors"

var (
	// -- Input --
	ErrValidation = errors.New("validation failed")

	// -- Authentication/Authorization --
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// -- Resource State --
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid status")
)

// -- Constants (External Systems) --
const PgUniqueViolation = "23505"
