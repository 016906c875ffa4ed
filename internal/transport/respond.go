package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/repository"
)

const maxBodyBytes = 10 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, nutrition.ErrInvalidInput),
		errors.Is(err, meal.ErrEmptyPatch),
		errors.Is(err, workout.ErrEmptyPatch),
		errors.Is(err, profile.ErrEmptyPatch),
		errors.Is(err, profile.ErrMissingMetrics),
		errors.Is(err, food.ErrEmptyQuery),
		errors.Is(err, repository.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, meal.ErrMealNotFound),
		errors.Is(err, workout.ErrWorkoutNotFound),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, meal.ErrMissingUser),
		errors.Is(err, workout.ErrMissingUser),
		errors.Is(err, profile.ErrMissingUser),
		errors.Is(err, repository.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, food.ErrNoRecognizer),
		errors.Is(err, meal.ErrPhotoStoreUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, food.ErrRecognitionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	var ve *nutrition.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &nutrition.ValidationError{Reason: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}
