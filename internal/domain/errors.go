package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrMalformed     = errors.New("malformed article")
)
