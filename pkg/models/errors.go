package models

import "errors"

// Error kinds shared by every layer. Callers attach detail by wrapping with %w
// and match with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrUnknownStatus = errors.New("unknown status")
	ErrAuth          = errors.New("authentication failed")
	ErrStore         = errors.New("store error")
)
