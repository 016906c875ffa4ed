package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/repository"
)

// ProfileRepository implements profile.Repository for SQLite
type ProfileRepository struct {
	db  *DB
	now func() time.Time
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: time.Now}
}

const profileColumns = `id, email, name, calorie_goal, weight, height, age, updated_at`

func scanProfile(s rowScanner) (profile.Profile, error) {
	var (
		p         profile.Profile
		updatedAt int64
	)
	err := s.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.CalorieGoal,
		&p.WeightKg,
		&p.HeightCm,
		&p.Age,
		&updatedAt,
	)
	if err != nil {
		return p, err
	}
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// Upsert inserts a profile or overwrites the stored one with the same id
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = r.now()
	}
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			calorie_goal = excluded.calorie_goal,
			weight = excluded.weight,
			height = excluded.height,
			age = excluded.age,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Email,
		p.Name,
		p.CalorieGoal,
		nullFloat(p.WeightKg),
		nullFloat(p.HeightCm),
		nullInt(p.Age),
		millis(p.UpdatedAt),
	)
	if isCheckViolation(err) {
		return fmt.Errorf("failed to upsert profile: %w", repository.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Get retrieves a user's profile
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Update applies patch to the stored profile
func (r *ProfileRepository) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	current, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)
	updated.UpdatedAt = r.now()
	if err := r.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
