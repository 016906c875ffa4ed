package meal

import "errors"

var (
	// ErrMealNotFound indicates the meal doesn't exist in the store.
	ErrMealNotFound = errors.New("meal not found")
	// ErrMissingUser indicates an operation was attempted without a signed-in user.
	ErrMissingUser = errors.New("user id required")
	// ErrEmptyPatch indicates an update carried no fields.
	ErrEmptyPatch = errors.New("meal update has no fields")
	// ErrPhotoStoreUnavailable indicates a photo was supplied but uploads are not configured.
	ErrPhotoStoreUnavailable = errors.New("photo storage not configured")
)
