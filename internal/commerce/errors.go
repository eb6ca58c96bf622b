package commerce

import "errors"

// Error kinds surfaced by stores and handlers. The HTTP layer maps them to
// status codes with errors.Is, so every failure path wraps exactly one of
// these.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid order state")
	ErrUnauthorized      = errors.New("unauthorized")
)
