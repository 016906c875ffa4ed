package mocks

import (
	"context"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/stretchr/testify/mock"
)

// MealRepository is a mock for meal.Repository.
type MealRepository struct {
	mock.Mock
}

func (m *MealRepository) Create(ctx context.Context, userID string, entry *meal.Entry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *MealRepository) Update(ctx context.Context, userID, id string, patch meal.Patch) (*meal.Entry, error) {
	args := m.Called(ctx, userID, id, patch)
	if e, ok := args.Get(0).(*meal.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MealRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MealRepository) List(ctx context.Context, userID string, opts meal.ListOptions) ([]meal.Entry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]meal.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// BatchMealRepository is a MealRepository that also supports batch deletes.
type BatchMealRepository struct {
	MealRepository
}

func (m *BatchMealRepository) DeleteMany(ctx context.Context, userID string, ids []string) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

// WorkoutRepository is a mock for workout.Repository.
type WorkoutRepository struct {
	mock.Mock
}

func (m *WorkoutRepository) Create(ctx context.Context, userID string, entry *workout.Entry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *WorkoutRepository) Update(ctx context.Context, userID, id string, patch workout.Patch) (*workout.Entry, error) {
	args := m.Called(ctx, userID, id, patch)
	if e, ok := args.Get(0).(*workout.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *WorkoutRepository) List(ctx context.Context, userID string, opts workout.ListOptions) ([]workout.Entry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]workout.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	args := m.Called(ctx, userID, patch)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
