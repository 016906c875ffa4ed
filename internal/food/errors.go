package food

import "errors"

var (
	// ErrEmptyQuery indicates a resolution was requested for a blank name.
	ErrEmptyQuery = errors.New("food name required")
	// ErrRecognitionFailed indicates the image recognizer call failed, as
	// opposed to succeeding with no tags.
	ErrRecognitionFailed = errors.New("image recognition failed")
	// ErrNoRecognizer indicates image recognition is not configured.
	ErrNoRecognizer = errors.New("image recognition not configured")
)
