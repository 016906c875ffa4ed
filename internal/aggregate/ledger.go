// Package aggregate keeps derived nutrition totals in step with the day's
// meal and workout collections.
package aggregate

import (
	"slices"
	"sync"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/workout"
)

// DailyTotals is the fold of the current meal and workout collections.
type DailyTotals struct {
	Calories       int `json:"total_calories"`
	Protein        int `json:"total_protein"`
	Carbs          int `json:"total_carbs"`
	Fats           int `json:"total_fats"`
	CaloriesBurned int `json:"total_calories_burned"`
	Meals          int `json:"meal_count"`
	Workouts       int `json:"workout_count"`
}

// Net returns calories consumed minus calories burned.
func (t DailyTotals) Net() int {
	return t.Calories - t.CaloriesBurned
}

// Snapshot is a consistent copy of a ledger's collections and totals.
type Snapshot struct {
	Totals   DailyTotals     `json:"totals"`
	Meals    []meal.Entry    `json:"meals"`
	Workouts []workout.Entry `json:"workouts"`
}

// Ledger holds one user's meals and workouts for the day. Its mutation
// methods are the only way to change the collections, and each one leaves
// the totals equal to the fold of the collections.
type Ledger struct {
	mu       sync.RWMutex
	meals    []meal.Entry
	workouts []workout.Entry
	totals   DailyTotals
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// ReplaceMeals installs entries as the meal collection and refolds meal totals.
func (l *Ledger) ReplaceMeals(entries []meal.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meals = slices.Clone(entries)
	l.refoldMeals()
}

// AddMeal appends an entry and adds its contribution. Duplicate ids are not
// detected.
func (l *Ledger) AddMeal(e meal.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meals = append(l.meals, e)
	l.totals.Calories += e.Calories
	l.totals.Protein += e.Protein
	l.totals.Carbs += e.Carbs
	l.totals.Fats += e.Fats
	l.totals.Meals++
}

// RemoveMeal removes the entry with id and subtracts its contribution. It
// reports whether an entry was removed.
func (l *Ledger) RemoveMeal(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.meals, func(e meal.Entry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	e := l.meals[i]
	l.meals = slices.Delete(l.meals, i, i+1)
	l.totals.Calories -= e.Calories
	l.totals.Protein -= e.Protein
	l.totals.Carbs -= e.Carbs
	l.totals.Fats -= e.Fats
	l.totals.Meals--
	return true
}

// UpdateMeal merges patch into the entry with id and refolds meal totals.
// It reports whether an entry was found.
func (l *Ledger) UpdateMeal(id string, patch meal.Patch) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.meals, func(e meal.Entry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.meals[i] = patch.Apply(l.meals[i])
	l.refoldMeals()
	return true
}

// ReplaceWorkouts installs entries as the workout collection.
func (l *Ledger) ReplaceWorkouts(entries []workout.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.workouts = slices.Clone(entries)
	l.refoldWorkouts()
}

// AddWorkout appends a workout and adds its calories burned.
func (l *Ledger) AddWorkout(e workout.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.workouts = append(l.workouts, e)
	l.totals.CaloriesBurned += e.CaloriesBurned
	l.totals.Workouts++
}

// RemoveWorkout removes the workout with id.
func (l *Ledger) RemoveWorkout(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.workouts, func(e workout.Entry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.totals.CaloriesBurned -= l.workouts[i].CaloriesBurned
	l.totals.Workouts--
	l.workouts = slices.Delete(l.workouts, i, i+1)
	return true
}

// UpdateWorkout merges patch into the workout with id and refolds.
func (l *Ledger) UpdateWorkout(id string, patch workout.Patch) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.workouts, func(e workout.Entry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.workouts[i] = patch.Apply(l.workouts[i])
	l.refoldWorkouts()
	return true
}

// Reset empties both collections.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meals = nil
	l.workouts = nil
	l.totals = DailyTotals{}
}

// Totals returns the current totals.
func (l *Ledger) Totals() DailyTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totals
}

// Snapshot copies the collections and totals under one lock.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Totals:   l.totals,
		Meals:    append([]meal.Entry{}, l.meals...),
		Workouts: append([]workout.Entry{}, l.workouts...),
	}
}

func (l *Ledger) refoldMeals() {
	t := FoldMeals(l.meals)
	l.totals.Calories = t.Calories
	l.totals.Protein = t.Protein
	l.totals.Carbs = t.Carbs
	l.totals.Fats = t.Fats
	l.totals.Meals = t.Meals
}

func (l *Ledger) refoldWorkouts() {
	t := FoldWorkouts(l.workouts)
	l.totals.CaloriesBurned = t.CaloriesBurned
	l.totals.Workouts = t.Workouts
}

// FoldMeals sums calories and macros over entries.
func FoldMeals(entries []meal.Entry) DailyTotals {
	var t DailyTotals
	for _, e := range entries {
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fats += e.Fats
	}
	t.Meals = len(entries)
	return t
}

// FoldWorkouts sums calories burned over entries.
func FoldWorkouts(entries []workout.Entry) DailyTotals {
	var t DailyTotals
	for _, e := range entries {
		t.CaloriesBurned += e.CaloriesBurned
	}
	t.Workouts = len(entries)
	return t
}
