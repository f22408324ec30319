package models

import "errors"

// Sentinel errors shared across repositories, services and handlers.
// Services wrap these with fmt.Errorf("%w: ...") and handlers map them
// to HTTP statuses with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("not the owner")
)
