// Package app bundles the services the HTTP and MCP surfaces share.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/domain/analytics"
	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
)

// FoodCatalog stores custom foods for later search.
type FoodCatalog interface {
	Save(ctx context.Context, f food.Candidate) error
}

// Services contains everything a client surface needs.
type Services struct {
	Meals     *meal.Service
	Workouts  *workout.Service
	Profiles  *profile.Service
	Analytics *analytics.Service
	Foods     *food.Resolver

	// Catalog is nil unless a local food catalog is configured.
	Catalog FoodCatalog
	Book    *aggregate.Book
	Now     calendar.Clock
}

// Today is the daily view: the ledger snapshot plus goal progress.
type Today struct {
	Date     string                `json:"date"`
	Totals   aggregate.DailyTotals `json:"totals"`
	Net      int                   `json:"net"`
	Meals    []meal.Entry          `json:"meals"`
	Workouts []workout.Entry       `json:"workouts"`
	Progress profile.Progress      `json:"progress"`
}

// LoadToday reloads today's meals and workouts into the user's ledger and
// returns the resulting view.
func (s *Services) LoadToday(ctx context.Context, userID string) (Today, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Meals.LoadToday(gctx, userID)
		return err
	})
	g.Go(func() error {
		_, err := s.Workouts.LoadToday(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Today{}, err
	}
	return s.Today(ctx, userID)
}

// Today returns the view from the ledger as it stands.
func (s *Services) Today(ctx context.Context, userID string) (Today, error) {
	snap := s.Book.Today(userID)

	goal := profile.Profile{ID: userID, CalorieGoal: profile.DefaultCalorieGoal}
	p, err := s.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		goal = *p
	case !errors.Is(err, profile.ErrProfileNotFound):
		return Today{}, fmt.Errorf("getting profile: %w", err)
	}

	return Today{
		Date:     calendar.DateKey(s.now()),
		Totals:   snap.Totals,
		Net:      snap.Totals.Net(),
		Meals:    snap.Meals,
		Workouts: snap.Workouts,
		Progress: profile.ProgressFor(goal, snap.Totals.Calories),
	}, nil
}

// SignOut drops the user's in-memory state.
func (s *Services) SignOut(userID string) {
	s.Book.Forget(userID)
}

func (s *Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
