package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/nutrilog/internal/domain/workout"
)

type logWorkoutRequest struct {
	Name           string     `json:"name"`
	Duration       *int       `json:"duration"`
	CaloriesBurned *int       `json:"calories_burned"`
	WorkoutType    string     `json:"workout_type"`
	Notes          string     `json:"notes"`
	CompletedAt    *time.Time `json:"completed_at"`
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	var body logWorkoutRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	in := workout.Input{
		Name:            body.Name,
		DurationMinutes: body.Duration,
		CaloriesBurned:  body.CaloriesBurned,
		WorkoutType:     body.WorkoutType,
		Notes:           body.Notes,
	}
	if body.CompletedAt != nil {
		in.CompletedAt = *body.CompletedAt
	}
	entry, err := s.svcs.Workouts.Log(r.Context(), uid, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	from, to, err := parseRange(r, s.svcs.Now)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.svcs.Workouts.History(r.Context(), uid, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []workout.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": entries})
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	var patch workout.Patch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.svcs.Workouts.Update(r.Context(), uid, chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	if err := s.svcs.Workouts.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
