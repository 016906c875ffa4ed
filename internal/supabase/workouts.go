package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/repository"
)

const workoutsPath = "/rest/v1/workouts"

// WorkoutRepository stores workouts in the workouts table.
type WorkoutRepository struct {
	c *Client
}

// NewWorkoutRepository creates a new WorkoutRepository.
func NewWorkoutRepository(c *Client) *WorkoutRepository {
	return &WorkoutRepository{c: c}
}

type workoutRow struct {
	ID             flexID    `json:"id,omitempty"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Duration       amount    `json:"duration"`
	CaloriesBurned amount    `json:"calories_burned"`
	WorkoutType    string    `json:"workout_type"`
	Notes          *string   `json:"notes"`
	CompletedAt    time.Time `json:"completed_at"`
}

func (r workoutRow) entry() workout.Entry {
	return workout.Entry{
		ID:              string(r.ID),
		UserID:          r.UserID,
		Name:            r.Name,
		DurationMinutes: r.Duration.int(),
		CaloriesBurned:  r.CaloriesBurned.int(),
		WorkoutType:     r.WorkoutType,
		Notes:           deref(r.Notes),
		CompletedAt:     r.CompletedAt,
	}
}

// Create inserts a workout and copies the stored id back onto entry.
func (w *WorkoutRepository) Create(ctx context.Context, userID string, entry *workout.Entry) error {
	row := workoutRow{
		UserID:         userID,
		Name:           entry.Name,
		Duration:       amount(entry.DurationMinutes),
		CaloriesBurned: amount(entry.CaloriesBurned),
		WorkoutType:    entry.WorkoutType,
		Notes:          optional(entry.Notes),
		CompletedAt:    entry.CompletedAt.UTC(),
	}
	var out []workoutRow
	err := w.c.do(ctx, request{
		method: http.MethodPost,
		path:   workoutsPath,
		body:   row,
		prefer: "return=representation",
	}, &out)
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("insert workout: empty representation")
	}
	entry.ID = string(out[0].ID)
	entry.UserID = userID
	return nil
}

// Update patches a workout and returns the stored row.
func (w *WorkoutRepository) Update(ctx context.Context, userID, id string, patch workout.Patch) (*workout.Entry, error) {
	if patch.WorkoutType != nil {
		t := workout.NormalizeType(*patch.WorkoutType)
		patch.WorkoutType = &t
	}
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		patch.Name = &n
	}
	var out []workoutRow
	err := w.c.do(ctx, request{
		method: http.MethodPatch,
		path:   workoutsPath,
		query:  idQuery(userID, id),
		body:   patch,
		prefer: "return=representation",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	e := out[0].entry()
	return &e, nil
}

// Delete removes a workout.
func (w *WorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	err := w.c.do(ctx, request{method: http.MethodDelete, path: workoutsPath, query: idQuery(userID, id)}, nil)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// List returns the user's workouts in the requested window.
func (w *WorkoutRepository) List(ctx context.Context, userID string, opts workout.ListOptions) ([]workout.Entry, error) {
	var rows []workoutRow
	q := rangeQuery(userID, "completed_at", opts.From, opts.To, opts.Ascending, opts.Limit)
	if err := w.c.do(ctx, request{method: http.MethodGet, path: workoutsPath, query: q}, &rows); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	out := make([]workout.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

func idQuery(userID, id string) url.Values {
	q := url.Values{}
	q.Set("user_id", eq(userID))
	if id != "" {
		q.Set("id", eq(id))
	}
	return q
}
