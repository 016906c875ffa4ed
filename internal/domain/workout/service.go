package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/repository"
)

// Service handles workout logging.
type Service struct {
	repo   Repository
	ledger Ledger
	now    calendar.Clock
	logger *slog.Logger
}

// NewService creates a new workout service.
func NewService(repo Repository, ledger Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, ledger: ledger, now: time.Now, logger: logger}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now calendar.Clock) *Service {
	s.now = now
	return s
}

// Log validates and persists a workout.
func (s *Service) Log(ctx context.Context, userID string, in Input) (*Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	e, err := NewEntry(in)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if e.CompletedAt.IsZero() {
		e.CompletedAt = now
	}
	e.UserID = userID

	if err := s.repo.Create(ctx, userID, &e); err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}
	if calendar.SameDay(now, e.CompletedAt) {
		s.ledger.AddWorkout(userID, e)
	}
	s.logger.Info("workout logged", "user_id", userID, "workout_id", e.ID, "calories_burned", e.CaloriesBurned)
	return &e, nil
}

// Update patches a stored workout.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (*Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("updating workout: %w", err)
	}
	s.ledger.UpdateWorkout(userID, id, patch)
	return updated, nil
}

// Delete removes a workout. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrMissingUser
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("deleting workout: %w", err)
	}
	s.ledger.RemoveWorkout(userID, id)
	return nil
}

// LoadToday fetches today's workouts into the ledger.
func (s *Service) LoadToday(ctx context.Context, userID string) ([]Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	now := s.now()
	entries, err := s.repo.List(ctx, userID, ListOptions{
		From: calendar.DayStart(now),
		To:   calendar.DayEnd(now),
	})
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	s.ledger.ReplaceWorkouts(userID, entries)
	return entries, nil
}

// History lists workouts completed between from and to, newest first.
func (s *Service) History(ctx context.Context, userID string, from, to time.Time) ([]Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	entries, err := s.repo.List(ctx, userID, ListOptions{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	return entries, nil
}
