package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/repository"
)

// MealRepository implements meal.Repository and meal.BatchDeleter for SQLite
type MealRepository struct {
	db *DB
}

// NewMealRepository creates a new MealRepository
func NewMealRepository(db *DB) *MealRepository {
	return &MealRepository{db: db}
}

const mealColumns = `id, user_id, name, calories, protein, carbs, fats, meal_type, logged_at, image_url`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeal(s rowScanner) (meal.Entry, error) {
	var (
		e        meal.Entry
		loggedAt int64
		imageURL sql.NullString
	)
	err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Calories,
		&e.Protein,
		&e.Carbs,
		&e.Fats,
		&e.MealType,
		&loggedAt,
		&imageURL,
	)
	if err != nil {
		return e, err
	}
	e.LoggedAt = fromMillis(loggedAt)
	e.ImageURL = imageURL.String
	return e, nil
}

// Create inserts a meal, assigning an id when the entry has none
func (r *MealRepository) Create(ctx context.Context, userID string, entry *meal.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UserID = userID

	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		userID,
		entry.Name,
		entry.Calories,
		entry.Protein,
		entry.Carbs,
		entry.Fats,
		entry.MealType,
		millis(entry.LoggedAt),
		nullString(entry.ImageURL),
	)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("failed to create meal: %w", repository.ErrConflict)
	case isCheckViolation(err):
		return fmt.Errorf("failed to create meal: %w", repository.ErrInvalidInput)
	case err != nil:
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (r *MealRepository) get(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}, userID, id string) (meal.Entry, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = ? AND user_id = ?`
	e, err := scanMeal(q.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return e, repository.ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("failed to get meal: %w", err)
	}
	return e, nil
}

// Update applies patch to a stored meal and returns the result
func (r *MealRepository) Update(ctx context.Context, userID, id string, patch meal.Patch) (*meal.Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := r.get(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(current)

	query := `
		UPDATE meals
		SET name = ?, calories = ?, protein = ?, carbs = ?, fats = ?, meal_type = ?
		WHERE id = ? AND user_id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		updated.Name,
		updated.Calories,
		updated.Protein,
		updated.Carbs,
		updated.Fats,
		updated.MealType,
		id,
		userID,
	)
	if isCheckViolation(err) {
		return nil, fmt.Errorf("failed to update meal: %w", repository.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &updated, nil
}

// Delete removes a meal. Deleting a missing meal is not an error.
func (r *MealRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

// DeleteMany removes several meals in one statement
func (r *MealRepository) DeleteMany(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `DELETE FROM meals WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete meals: %w", err)
	}
	return nil
}

// List returns a user's meals within the window
func (r *MealRepository) List(ctx context.Context, userID string, opts meal.ListOptions) ([]meal.Entry, error) {
	tail, tailArgs := rangeClause("logged_at", opts.From, opts.To, opts.Ascending, opts.Limit)
	query := `SELECT ` + mealColumns + ` FROM meals WHERE user_id = ?` + tail
	args := append([]interface{}{userID}, tailArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var entries []meal.Entry
	for rows.Next() {
		e, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal rows: %w", err)
	}
	return entries, nil
}
