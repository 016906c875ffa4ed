// Package analytics derives multi-day series from stored meals and workouts.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/workout"
)

// DefaultDays is the length of the weekly view; MaxDays caps any view.
const (
	DefaultDays = 7
	MaxDays     = 366
)

// ErrMissingUser indicates an operation was attempted without a signed-in user.
var ErrMissingUser = errors.New("user id required")

// MealLister lists stored meals.
type MealLister interface {
	List(ctx context.Context, userID string, opts meal.ListOptions) ([]meal.Entry, error)
}

// WorkoutLister lists stored workouts.
type WorkoutLister interface {
	List(ctx context.Context, userID string, opts workout.ListOptions) ([]workout.Entry, error)
}

// Service computes analytics views.
type Service struct {
	meals    MealLister
	workouts WorkoutLister
	now      calendar.Clock
	logger   *slog.Logger
}

// NewService creates a new analytics service.
func NewService(meals MealLister, workouts WorkoutLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{meals: meals, workouts: workouts, now: time.Now, logger: logger}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now calendar.Clock) *Service {
	s.now = now
	return s
}

// Day is one row of the daily series.
type Day struct {
	Date     string `json:"date"`
	Consumed int    `json:"consumed"`
	Burned   int    `json:"burned"`
	Net      int    `json:"net"`
}

// Series is a run of days with summary figures.
type Series struct {
	Days          []Day `json:"days"`
	TotalConsumed int   `json:"total_consumed"`
	TotalBurned   int   `json:"total_burned"`
	AverageDaily  int   `json:"average_daily"`
}

// Daily returns consumed and burned calories for each of the last days local
// days, including empty ones.
func (s *Service) Daily(ctx context.Context, userID string, days int, order aggregate.Order) (Series, error) {
	if userID == "" {
		return Series{}, ErrMissingUser
	}
	days, err := windowDays(days)
	if err != nil {
		return Series{}, err
	}
	from, to := calendar.LastDays(s.now(), days)

	meals, err := s.meals.List(ctx, userID, meal.ListOptions{From: from, To: to, Ascending: true})
	if err != nil {
		return Series{}, fmt.Errorf("listing meals: %w", err)
	}
	workouts, err := s.workouts.List(ctx, userID, workout.ListOptions{From: from, To: to, Ascending: true})
	if err != nil {
		return Series{}, fmt.Errorf("listing workouts: %w", err)
	}

	consumed := aggregate.RangeSummary(aggregate.MealPoints(meals), from, to, order)
	burned := aggregate.RangeSummary(aggregate.WorkoutPoints(workouts), from, to, order)

	out := Series{Days: make([]Day, len(consumed))}
	for i := range consumed {
		d := Day{Date: consumed[i].Date, Consumed: consumed[i].Calories, Burned: burned[i].Calories}
		d.Net = d.Consumed - d.Burned
		out.Days[i] = d
		out.TotalConsumed += d.Consumed
		out.TotalBurned += d.Burned
	}
	out.AverageDaily = int(math.Round(float64(out.TotalConsumed) / float64(len(out.Days))))
	return out, nil
}

func windowDays(days int) (int, error) {
	switch {
	case days <= 0:
		return DefaultDays, nil
	case days > MaxDays:
		return 0, &nutrition.ValidationError{Field: "days", Reason: fmt.Sprintf("must be at most %d", MaxDays)}
	}
	return days, nil
}

// Macros is the macro breakdown over a period.
type Macros struct {
	Protein     int `json:"protein"`
	Carbs       int `json:"carbs"`
	Fats        int `json:"fats"`
	ProteinPct  int `json:"protein_pct"`
	CarbsPct    int `json:"carbs_pct"`
	FatsPct     int `json:"fats_pct"`
	MealCount   int `json:"meal_count"`
	MacroEnergy int `json:"macro_calories"`
}

// Macros sums protein, carbs and fats over the last days local days and
// reports each one's share of macro energy at 4/4/9 kcal per gram.
func (s *Service) Macros(ctx context.Context, userID string, days int) (Macros, error) {
	if userID == "" {
		return Macros{}, ErrMissingUser
	}
	days, err := windowDays(days)
	if err != nil {
		return Macros{}, err
	}
	from, to := calendar.LastDays(s.now(), days)
	meals, err := s.meals.List(ctx, userID, meal.ListOptions{From: from, To: to})
	if err != nil {
		return Macros{}, fmt.Errorf("listing meals: %w", err)
	}
	return MacroBreakdown(meals), nil
}

// MacroBreakdown folds meals into macro totals and energy shares.
func MacroBreakdown(meals []meal.Entry) Macros {
	t := aggregate.FoldMeals(meals)
	m := Macros{Protein: t.Protein, Carbs: t.Carbs, Fats: t.Fats, MealCount: t.Meals}
	pk, ck, fk := 4*t.Protein, 4*t.Carbs, 9*t.Fats
	m.MacroEnergy = pk + ck + fk
	if m.MacroEnergy > 0 {
		m.ProteinPct = share(pk, m.MacroEnergy)
		m.CarbsPct = share(ck, m.MacroEnergy)
		m.FatsPct = share(fk, m.MacroEnergy)
	}
	return m
}

func share(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
