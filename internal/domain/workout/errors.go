package workout

import "errors"

var (
	// ErrWorkoutNotFound indicates the workout doesn't exist in the store.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrMissingUser indicates an operation was attempted without a signed-in user.
	ErrMissingUser = errors.New("user id required")
	// ErrEmptyPatch indicates an update carried no fields.
	ErrEmptyPatch = errors.New("workout update has no fields")
)
