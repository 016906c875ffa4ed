package profile

import "errors"

var (
	// ErrProfileNotFound indicates the user has no profile row.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMissingUser indicates an operation was attempted without a signed-in user.
	ErrMissingUser = errors.New("user id required")
	// ErrEmptyPatch indicates an update carried no fields.
	ErrEmptyPatch = errors.New("profile update has no fields")
	// ErrMissingMetrics indicates body metrics needed for a calculation are absent.
	ErrMissingMetrics = errors.New("weight, height and age are required")
)
