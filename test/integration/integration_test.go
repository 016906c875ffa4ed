package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/domain/analytics"
	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/sqlite"
)

type testEnv struct {
	db      *sqlite.DB
	catalog *sqlite.FoodCatalog
	svcs    *app.Services
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }

	book := aggregate.NewBook()
	meals := meal.NewService(sqlite.NewMealRepository(db), book, nil, nil).WithClock(clock)
	workouts := workout.NewService(sqlite.NewWorkoutRepository(db), book, nil).WithClock(clock)
	catalog := sqlite.NewFoodCatalog(db, 5)

	return &testEnv{
		db:      db,
		catalog: catalog,
		now:     now,
		svcs: &app.Services{
			Meals:     meals,
			Workouts:  workouts,
			Profiles:  profile.NewService(sqlite.NewProfileRepository(db), nil),
			Analytics: analytics.NewService(sqlite.NewMealRepository(db), sqlite.NewWorkoutRepository(db), nil).WithClock(clock),
			Foods:     food.NewResolver(nil, catalog, nil, nil, food.DefaultConfig(), nil),
			Catalog:   catalog,
			Book:      book,
			Now:       clock,
		},
	}
}

func logMeal(t *testing.T, env *testEnv, uid, name string, kcal int, at time.Time) *meal.Entry {
	t.Helper()
	rec, err := nutrition.NewRecord(nutrition.Input{Name: name, Calories: &kcal})
	require.NoError(t, err)
	entry, err := env.svcs.Meals.Log(context.Background(), uid, meal.LogRequest{Record: rec, LoggedAt: at})
	require.NoError(t, err)
	return entry
}

func TestDailyLedgerMatchesStore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	breakfast := logMeal(t, env, "u1", "Eggs", 155, env.now.Add(-10*time.Hour))
	logMeal(t, env, "u1", "Soup", 120, env.now.Add(-5*time.Hour))
	logMeal(t, env, "u1", "Yesterday Pizza", 800, env.now.Add(-24*time.Hour))

	dur, burned := 30, 200
	_, err := env.svcs.Workouts.Log(ctx, "u1", workout.Input{
		Name: "Row", DurationMinutes: &dur, CaloriesBurned: &burned, CompletedAt: env.now.Add(-time.Hour),
	})
	require.NoError(t, err)

	live, err := env.svcs.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 275, live.Totals.Calories, "yesterday's meal stays out of today")
	assert.Equal(t, 75, live.Net)

	kcal := 175
	_, err = env.svcs.Meals.Update(ctx, "u1", breakfast.ID, meal.Patch{Calories: &kcal})
	require.NoError(t, err)

	// A fresh process reloading from the store sees the same totals.
	env.svcs.SignOut("u1")
	reloaded, err := env.svcs.LoadToday(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 295, reloaded.Totals.Calories)
	assert.Equal(t, 2, reloaded.Totals.Meals)
	assert.Equal(t, 1, reloaded.Totals.Workouts)
	assert.Equal(t, calendar.DateKey(env.now), reloaded.Date)
}

func TestClearTodayKeepsOtherDays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	logMeal(t, env, "u1", "Toast", 90, env.now.Add(-2*time.Hour))
	logMeal(t, env, "u1", "Tea", 5, env.now.Add(-time.Hour))
	logMeal(t, env, "u1", "Old Lunch", 600, env.now.Add(-48*time.Hour))
	logMeal(t, env, "u2", "Other User", 300, env.now.Add(-time.Hour))

	require.NoError(t, env.svcs.Meals.ClearToday(ctx, "u1"))

	today, err := env.svcs.LoadToday(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, today.Meals)

	history, err := env.svcs.Meals.History(ctx, "u1", env.now.Add(-72*time.Hour), env.now)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Old Lunch", history[0].Name)

	other, err := env.svcs.LoadToday(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 300, other.Totals.Calories)
}

func TestWeeklySeries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for i := range 3 {
		logMeal(t, env, "u1", "Meal", 500+i*100, env.now.AddDate(0, 0, -i))
	}

	series, err := env.svcs.Analytics.Daily(ctx, "u1", 7, aggregate.Ascending)
	require.NoError(t, err)
	require.Len(t, series.Days, 7)
	assert.Equal(t, calendar.DateKey(env.now), series.Days[6].Date)
	assert.Equal(t, 500, series.Days[6].Consumed)
	assert.Equal(t, 700, series.Days[4].Consumed)
	assert.Equal(t, 1800, series.TotalConsumed)
}

func TestCatalogFeedsResolver(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	kcal, protein := 380, 24
	rec, err := nutrition.NewRecord(nutrition.Input{Name: "Lentil Curry", Calories: &kcal, Protein: &protein})
	require.NoError(t, err)
	require.NoError(t, env.catalog.Save(ctx, food.Candidate{Record: rec}))

	c, err := env.svcs.Foods.ResolveByName(ctx, "lentil curry")
	require.NoError(t, err)
	assert.Equal(t, 380, c.Calories)
	assert.Equal(t, food.OriginExternal, c.Origin)
	assert.False(t, c.Estimated)

	unknown, err := env.svcs.Foods.ResolveByName(ctx, "zzzz")
	require.NoError(t, err)
	assert.True(t, unknown.Estimated)
	assert.Equal(t, food.FallbackCalories, unknown.Calories)

	results := env.svcs.Foods.SearchByName(ctx, "curry")
	require.NotEmpty(t, results)
	assert.Equal(t, "Lentil Curry", results[len(results)-1].Name)
}
