package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/repository"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Field        string `json:"field,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to
// INTERNAL with a generic message.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ve *nutrition.ValidationError
	switch {
	case errors.As(err, &ve):
		return &APIError{Code: "INVALID_INPUT", Message: ve.Error(), Field: ve.Field}
	case errors.Is(err, meal.ErrEmptyPatch),
		errors.Is(err, workout.ErrEmptyPatch),
		errors.Is(err, profile.ErrEmptyPatch):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Pass at least one field to change"}
	case errors.Is(err, profile.ErrMissingMetrics):
		return &APIError{Code: "MISSING_METRICS", Message: err.Error(), RecoveryHint: "Set weight, height and age with update_profile"}
	case errors.Is(err, food.ErrEmptyQuery),
		errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, meal.ErrMealNotFound):
		return &APIError{Code: "MEAL_NOT_FOUND", Message: "meal not found", RecoveryHint: "Call today_summary for current meal ids"}
	case errors.Is(err, workout.ErrWorkoutNotFound):
		return &APIError{Code: "WORKOUT_NOT_FOUND", Message: "workout not found", RecoveryHint: "Call today_summary for current workout ids"}
	case errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, meal.ErrMissingUser),
		errors.Is(err, workout.ErrMissingUser),
		errors.Is(err, profile.ErrMissingUser),
		errors.Is(err, auth.ErrNoSession),
		errors.Is(err, repository.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "not signed in", RecoveryHint: "Sign in again"}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, food.ErrNoRecognizer),
		errors.Is(err, meal.ErrPhotoStoreUnavailable),
		errors.Is(err, errNoCatalog):
		return &APIError{Code: "NOT_CONFIGURED", Message: err.Error()}
	case errors.Is(err, food.ErrRecognitionFailed):
		return &APIError{Code: "RECOGNITION_FAILED", Message: "could not recognize food", RecoveryHint: "Search by name instead"}
	default:
		return &APIError{Code: "INTERNAL", Message: "internal error"}
	}
}
