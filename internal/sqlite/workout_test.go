package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/repository"
)

func TestWorkoutRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWorkoutRepository(db)
	ctx := context.Background()

	now := time.Now()
	run := &workout.Entry{Name: "Run", DurationMinutes: 30, CaloriesBurned: 300, WorkoutType: "cardio", CompletedAt: now}
	lift := &workout.Entry{Name: "Lift", DurationMinutes: 45, CaloriesBurned: 200, WorkoutType: "strength", Notes: "legs", CompletedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, "u1", run))
	require.NoError(t, repo.Create(ctx, "u1", lift))

	entries, err := repo.List(ctx, "u1", workout.ListOptions{From: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Run", entries[0].Name)
	require.Equal(t, "legs", entries[1].Notes)

	dur := 50
	updated, err := repo.Update(ctx, "u1", lift.ID, workout.Patch{DurationMinutes: &dur})
	require.NoError(t, err)
	require.Equal(t, 50, updated.DurationMinutes)
	require.Equal(t, "legs", updated.Notes)

	_, err = repo.Update(ctx, "u1", "missing", workout.Patch{DurationMinutes: &dur})
	require.ErrorIs(t, err, repository.ErrNotFound)

	zero := &workout.Entry{Name: "Nothing", DurationMinutes: 0, CompletedAt: now}
	require.ErrorIs(t, repo.Create(ctx, "u1", zero), repository.ErrInvalidInput)

	require.NoError(t, repo.Delete(ctx, "u1", run.ID))
	entries, err = repo.List(ctx, "u1", workout.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
