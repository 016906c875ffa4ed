package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/repository"
)

// Service handles meal logging. Every ledger change follows a confirmed store write.
type Service struct {
	repo   Repository
	ledger Ledger
	photos PhotoStore
	now    calendar.Clock
	logger *slog.Logger
}

// NewService creates a new meal service. photos may be nil when uploads are disabled.
func NewService(repo Repository, ledger Ledger, photos PhotoStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		ledger: ledger,
		photos: photos,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now calendar.Clock) *Service {
	s.now = now
	return s
}

// LogRequest describes a meal to log.
type LogRequest struct {
	Record   nutrition.Record
	MealType string
	LoggedAt time.Time
	ImageURL string
	Photo    *Photo
}

// Log validates and persists a meal, then adds it to today's ledger when it
// belongs to the current day.
func (s *Service) Log(ctx context.Context, userID string, req LogRequest) (*Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if err := nutrition.Loggable(req.Record); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &Entry{
		UserID:   userID,
		Record:   req.Record,
		MealType: NormalizeType(req.MealType),
		LoggedAt: req.LoggedAt,
		ImageURL: req.ImageURL,
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = now
	}

	if req.Photo != nil {
		if s.photos == nil {
			return nil, ErrPhotoStoreUnavailable
		}
		ref, err := s.photos.Upload(ctx, userID, *req.Photo)
		if err != nil {
			return nil, fmt.Errorf("uploading meal photo: %w", err)
		}
		entry.ImageURL = ref
	}

	if err := s.repo.Create(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	if calendar.SameDay(now, entry.LoggedAt) {
		s.ledger.AddMeal(userID, *entry)
	}
	s.logger.Info("meal logged", "user_id", userID, "meal_id", entry.ID, "calories", entry.Calories)
	return entry, nil
}

// Update patches a stored meal and mirrors the change in the ledger.
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
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("updating meal: %w", err)
	}

	s.ledger.UpdateMeal(userID, id, patch)
	return updated, nil
}

// Delete removes a meal from the store, then from the ledger. Deleting an
// unknown id succeeds.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrMissingUser
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("deleting meal: %w", err)
	}
	s.ledger.RemoveMeal(userID, id)
	return nil
}

// ClearToday deletes all of today's meals. Stores that support batch deletes
// get a single call; otherwise meals are deleted one at a time and each
// confirmed delete is reflected locally before the next.
func (s *Service) ClearToday(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingUser
	}
	entries, err := s.listDay(ctx, userID, s.now())
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	if batch, ok := s.repo.(BatchDeleter); ok && len(ids) > 0 {
		if err := batch.DeleteMany(ctx, userID, ids); err != nil {
			return fmt.Errorf("clearing meals: %w", err)
		}
	} else {
		for _, id := range ids {
			if err := s.repo.Delete(ctx, userID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("clearing meals: deleting %s: %w", id, err)
			}
			s.ledger.RemoveMeal(userID, id)
		}
	}

	s.ledger.ReplaceMeals(userID, nil)
	s.logger.Info("meals cleared", "user_id", userID, "count", len(ids))
	return nil
}

// LoadToday fetches today's meals and installs them as the ledger's collection.
func (s *Service) LoadToday(ctx context.Context, userID string) ([]Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	entries, err := s.listDay(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.ledger.ReplaceMeals(userID, entries)
	return entries, nil
}

// History lists meals logged between from and to, newest first.
func (s *Service) History(ctx context.Context, userID string, from, to time.Time) ([]Entry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	entries, err := s.repo.List(ctx, userID, ListOptions{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return entries, nil
}

func (s *Service) listDay(ctx context.Context, userID string, day time.Time) ([]Entry, error) {
	entries, err := s.repo.List(ctx, userID, ListOptions{
		From: calendar.DayStart(day),
		To:   calendar.DayEnd(day),
	})
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return entries, nil
}
