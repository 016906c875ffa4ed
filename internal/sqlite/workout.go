package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/repository"
)

// WorkoutRepository implements workout.Repository for SQLite
type WorkoutRepository struct {
	db *DB
}

// NewWorkoutRepository creates a new WorkoutRepository
func NewWorkoutRepository(db *DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

const workoutColumns = `id, user_id, name, duration, calories_burned, workout_type, notes, completed_at`

func scanWorkout(s rowScanner) (workout.Entry, error) {
	var (
		e           workout.Entry
		notes       sql.NullString
		completedAt int64
	)
	err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.DurationMinutes,
		&e.CaloriesBurned,
		&e.WorkoutType,
		&notes,
		&completedAt,
	)
	if err != nil {
		return e, err
	}
	e.Notes = notes.String
	e.CompletedAt = fromMillis(completedAt)
	return e, nil
}

// Create inserts a workout, assigning an id when the entry has none
func (r *WorkoutRepository) Create(ctx context.Context, userID string, entry *workout.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UserID = userID

	query := `INSERT INTO workouts (` + workoutColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		userID,
		entry.Name,
		entry.DurationMinutes,
		entry.CaloriesBurned,
		entry.WorkoutType,
		nullString(entry.Notes),
		millis(entry.CompletedAt),
	)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("failed to create workout: %w", repository.ErrConflict)
	case isCheckViolation(err):
		return fmt.Errorf("failed to create workout: %w", repository.ErrInvalidInput)
	case err != nil:
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

// Update applies patch to a stored workout and returns the result
func (r *WorkoutRepository) Update(ctx context.Context, userID, id string, patch workout.Patch) (*workout.Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = ? AND user_id = ?`
	current, err := scanWorkout(tx.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	updated := patch.Apply(current)

	_, err = tx.ExecContext(ctx, `
		UPDATE workouts
		SET name = ?, duration = ?, calories_burned = ?, workout_type = ?, notes = ?
		WHERE id = ? AND user_id = ?
	`,
		updated.Name,
		updated.DurationMinutes,
		updated.CaloriesBurned,
		updated.WorkoutType,
		nullString(updated.Notes),
		id,
		userID,
	)
	if isCheckViolation(err) {
		return nil, fmt.Errorf("failed to update workout: %w", repository.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &updated, nil
}

// Delete removes a workout. Deleting a missing workout is not an error.
func (r *WorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil
}

// List returns a user's workouts within the window
func (r *WorkoutRepository) List(ctx context.Context, userID string, opts workout.ListOptions) ([]workout.Entry, error) {
	tail, tailArgs := rangeClause("completed_at", opts.From, opts.To, opts.Ascending, opts.Limit)
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = ?` + tail
	args := append([]interface{}{userID}, tailArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var entries []workout.Entry
	for rows.Next() {
		e, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workout rows: %w", err)
	}
	return entries, nil
}
