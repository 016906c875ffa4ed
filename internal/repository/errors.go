package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with an existing row
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrUnauthorized is returned when the store rejects the caller's credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned when the store rejects a payload
	ErrInvalidInput = errors.New("invalid input")
)
