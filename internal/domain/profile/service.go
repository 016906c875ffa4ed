package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/nutrilog/internal/repository"
)

// Service handles profile operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Ensure returns the user's profile, creating one with the default goal on
// first sign-in.
func (s *Service) Ensure(ctx context.Context, userID, email, name string) (*Profile, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	existing, err := s.repo.Get(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	p := &Profile{
		ID:          userID,
		Email:       email,
		Name:        name,
		CalorieGoal: DefaultCalorieGoal,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	s.logger.Info("profile created", "user_id", userID)
	return p, nil
}

// Get returns the user's profile.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// Update validates and applies a profile patch.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*Profile, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}

// Progress summarizes consumption against a profile's goal.
type Progress struct {
	Goal        int           `json:"goal"`
	Consumed    int           `json:"consumed"`
	Remaining   int           `json:"remaining"`
	Percent     int           `json:"percent"`
	Status      CalorieStatus `json:"status"`
	BMI         *float64      `json:"bmi,omitempty"`
	BMICategory string        `json:"bmi_category,omitempty"`
}

// ProgressFor derives goal progress and BMI from a profile.
func ProgressFor(p Profile, consumed int) Progress {
	out := Progress{
		Goal:      p.CalorieGoal,
		Consumed:  consumed,
		Remaining: Remaining(consumed, p.CalorieGoal),
		Percent:   Percent(consumed, p.CalorieGoal),
		Status:    StatusFor(consumed, p.CalorieGoal),
	}
	if p.WeightKg != nil && p.HeightCm != nil {
		if bmi, ok := BMI(*p.WeightKg, *p.HeightCm); ok {
			out.BMI = &bmi
			out.BMICategory = BMICategory(bmi)
		}
	}
	return out
}

// Recommended returns the Harris-Benedict estimate for a profile.
func Recommended(p Profile, gender Gender, level ActivityLevel) (int, error) {
	if p.WeightKg == nil || p.HeightCm == nil || p.Age == nil {
		return 0, ErrMissingMetrics
	}
	return RecommendedCalories(*p.WeightKg, *p.HeightCm, *p.Age, gender, level), nil
}
