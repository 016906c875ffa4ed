package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/repository"
)

func TestProfileRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	p := &profile.Profile{ID: "u1", Email: "a@b.c", CalorieGoal: profile.DefaultCalorieGoal}
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "a@b.c", loaded.Email)
	require.Equal(t, 2000, loaded.CalorieGoal)
	require.Nil(t, loaded.WeightKg)
	require.Nil(t, loaded.Age)

	goal := 2400
	weight := 72.5
	age := 31
	updated, err := repo.Update(ctx, "u1", profile.Patch{CalorieGoal: &goal, WeightKg: &weight, Age: &age})
	require.NoError(t, err)
	require.Equal(t, 2400, updated.CalorieGoal)

	loaded, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2400, loaded.CalorieGoal)
	require.NotNil(t, loaded.WeightKg)
	require.InDelta(t, 72.5, *loaded.WeightKg, 0.001)
	require.Equal(t, 31, *loaded.Age)
	require.Equal(t, "a@b.c", loaded.Email)

	_, err = repo.Update(ctx, "missing", profile.Patch{CalorieGoal: &goal})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
