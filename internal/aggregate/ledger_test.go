package aggregate_test

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealEntry(id string, cal, p, c, f int) meal.Entry {
	return meal.Entry{
		ID:     id,
		Record: nutrition.Record{Name: "meal " + id, Calories: cal, Protein: p, Carbs: c, Fats: f},
	}
}

func intp(v int) *int { return &v }

func requireFolded(t *testing.T, l *aggregate.Ledger) {
	t.Helper()
	snap := l.Snapshot()
	want := aggregate.FoldMeals(snap.Meals)
	burned := aggregate.FoldWorkouts(snap.Workouts)
	want.CaloriesBurned = burned.CaloriesBurned
	want.Workouts = burned.Workouts
	require.Equal(t, want, snap.Totals)
}

func TestLedger_FoldConsistency(t *testing.T) {
	l := aggregate.NewLedger()
	rng := rand.New(rand.NewSource(7))
	var ids []string

	for i := 0; i < 300; i++ {
		switch op := rng.Intn(4); {
		case op <= 1 || len(ids) == 0:
			id := strconv.Itoa(i)
			ids = append(ids, id)
			l.AddMeal(mealEntry(id, rng.Intn(900), rng.Intn(50), rng.Intn(80), rng.Intn(40)))
		case op == 2:
			idx := rng.Intn(len(ids))
			l.RemoveMeal(ids[idx])
			ids = append(ids[:idx], ids[idx+1:]...)
		default:
			id := ids[rng.Intn(len(ids))]
			l.UpdateMeal(id, meal.Patch{Calories: intp(rng.Intn(900)), Fats: intp(rng.Intn(40))})
		}
		requireFolded(t, l)
	}
}

func TestLedger_ReplaceMealsIsIdempotent(t *testing.T) {
	l := aggregate.NewLedger()
	l.AddMeal(mealEntry("stale", 999, 1, 1, 1))

	records := []meal.Entry{mealEntry("a", 300, 20, 30, 10), mealEntry("b", 450, 25, 40, 15)}
	l.ReplaceMeals(records)
	first := l.Totals()
	l.ReplaceMeals(records)
	second := l.Totals()

	assert.Equal(t, first, second)
	assert.Equal(t, 750, first.Calories)
	assert.Equal(t, 45, first.Protein)
	assert.Equal(t, 2, first.Meals)
}

func TestLedger_ReplaceCopiesInput(t *testing.T) {
	l := aggregate.NewLedger()
	records := []meal.Entry{mealEntry("a", 300, 0, 0, 0)}
	l.ReplaceMeals(records)
	records[0].Calories = 1

	assert.Equal(t, 300, l.Snapshot().Meals[0].Calories)
	requireFolded(t, l)
}

func TestLedger_RemoveUnknownIsNoop(t *testing.T) {
	l := aggregate.NewLedger()
	l.AddMeal(mealEntry("a", 200, 10, 10, 10))
	before := l.Snapshot()

	assert.False(t, l.RemoveMeal("missing"))
	assert.Equal(t, before, l.Snapshot())
}

func TestLedger_UpdateUnknownIsNoop(t *testing.T) {
	l := aggregate.NewLedger()
	l.AddMeal(mealEntry("a", 200, 10, 10, 10))
	before := l.Snapshot()

	assert.False(t, l.UpdateMeal("missing", meal.Patch{Calories: intp(5)}))
	assert.Equal(t, before, l.Snapshot())
}

func TestLedger_NegativeCaloriesAreSummedAsIs(t *testing.T) {
	l := aggregate.NewLedger()
	l.AddMeal(mealEntry("a", 100, 0, 0, 0))
	l.AddMeal(mealEntry("b", -30, 0, 0, 0))

	assert.Equal(t, 70, l.Totals().Calories)
}

func TestLedger_Workouts(t *testing.T) {
	l := aggregate.NewLedger()
	l.AddWorkout(workout.Entry{ID: "w1", Name: "Run", DurationMinutes: 30, CaloriesBurned: 300})
	l.AddWorkout(workout.Entry{ID: "w2", Name: "Walk", DurationMinutes: 20})
	l.AddMeal(mealEntry("m", 500, 0, 0, 0))
	requireFolded(t, l)

	totals := l.Totals()
	assert.Equal(t, 300, totals.CaloriesBurned)
	assert.Equal(t, 200, totals.Net())

	l.UpdateWorkout("w2", workout.Patch{CaloriesBurned: intp(120)})
	assert.Equal(t, 420, l.Totals().CaloriesBurned)

	assert.True(t, l.RemoveWorkout("w1"))
	assert.False(t, l.RemoveWorkout("w1"))
	assert.Equal(t, 120, l.Totals().CaloriesBurned)
	requireFolded(t, l)

	l.Reset()
	assert.Equal(t, aggregate.DailyTotals{}, l.Totals())
}

func TestBook_IsolatesUsers(t *testing.T) {
	b := aggregate.NewBook()
	b.AddMeal("u1", mealEntry("a", 100, 0, 0, 0))
	b.AddMeal("u2", mealEntry("b", 250, 0, 0, 0))
	b.RemoveMeal("u1", "b")

	assert.Equal(t, 100, b.Today("u1").Totals.Calories)
	assert.Equal(t, 250, b.Today("u2").Totals.Calories)

	b.Forget("u1")
	assert.Zero(t, b.Today("u1").Totals.Calories)
}

func TestBook_ConcurrentMutations(t *testing.T) {
	b := aggregate.NewBook()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.AddMeal("u", mealEntry(strconv.Itoa(i), 10, 1, 1, 1))
		}(i)
	}
	wg.Wait()

	totals := b.Today("u").Totals
	assert.Equal(t, 500, totals.Calories)
	assert.Equal(t, 50, totals.Meals)
	requireFolded(t, b.Ledger("u"))
}
