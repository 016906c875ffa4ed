package nutrition

import "errors"

var (
	// ErrInvalidInput indicates a record or form field failed validation.
	ErrInvalidInput = errors.New("invalid nutrition input")
)

// ValidationError describes a rejected field with a human-readable reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// Is reports ErrInvalidInput so callers can match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
