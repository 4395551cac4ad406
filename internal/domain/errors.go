package domain

import "errors"

var (
	// ErrNotFound is returned when a stored entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when caller input fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
