package myerrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflicting state change")
	ErrForbidden    = errors.New("not allowed for this user")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidOtp   = errors.New("invalid OTP")
	ErrOtpExpired   = errors.New("OTP expired")
	ErrInvalidState = errors.New("invalid state for this operation")
	ErrNoWalkers    = errors.New("no walkers available nearby")
)
