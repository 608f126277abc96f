package myerrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflicting state change")
	ErrForbidden           = errors.New("not allowed for this user")
	ErrValidation          = errors.New("validation failed")
	ErrAlreadyPaid         = errors.New("session already paid")
	ErrInvalidSignature    = errors.New("gateway signature mismatch")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidState        = errors.New("invalid state for this operation")
)
