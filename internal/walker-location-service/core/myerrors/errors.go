package myerrors

import "errors"

var (
	ErrNotFound   = errors.New("walker not registered")
	ErrValidation = errors.New("validation failed")
)
