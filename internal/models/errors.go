package models

import "errors"

// Error taxonomy shared by all managers. Handlers match with errors.Is
// and translate to HTTP statuses. ErrExpired and ErrAlreadyUsed exist so
// tests and logs can tell consumption failures apart; user-facing
// messaging must collapse them (together with ErrNotFound) into one
// generic "invalid or expired" reply so invitation codes cannot be
// enumerated.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("invitation expired")
	ErrAlreadyUsed  = errors.New("invitation already used")
	ErrInvalidState = errors.New("invalid state transition")
)
