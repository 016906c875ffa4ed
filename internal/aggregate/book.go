package aggregate

import (
	"sync"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/workout"
)

// Book is the application's tracking state: one Ledger per signed-in user.
// The shell owns it and passes it to the services that report confirmed
// store changes.
type Book struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{ledgers: make(map[string]*Ledger)}
}

// Ledger returns the user's ledger, creating it on first use.
func (b *Book) Ledger(userID string) *Ledger {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.ledgers[userID]
	if !ok {
		l = NewLedger()
		b.ledgers[userID] = l
	}
	return l
}

// Forget drops the user's ledger, as on sign-out.
func (b *Book) Forget(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.ledgers, userID)
}

// Today returns a snapshot of the user's ledger.
func (b *Book) Today(userID string) Snapshot {
	return b.Ledger(userID).Snapshot()
}

// ReplaceMeals sets the user's meals to a freshly loaded day.
func (b *Book) ReplaceMeals(userID string, entries []meal.Entry) {
	b.Ledger(userID).ReplaceMeals(entries)
}

// AddMeal records a stored meal in the user's ledger.
func (b *Book) AddMeal(userID string, e meal.Entry) {
	b.Ledger(userID).AddMeal(e)
}

// RemoveMeal drops a deleted meal from the user's ledger.
func (b *Book) RemoveMeal(userID, id string) {
	b.Ledger(userID).RemoveMeal(id)
}

// UpdateMeal applies a stored edit to the user's ledger.
func (b *Book) UpdateMeal(userID, id string, patch meal.Patch) {
	b.Ledger(userID).UpdateMeal(id, patch)
}

// ReplaceWorkouts sets the user's workouts to a freshly loaded day.
func (b *Book) ReplaceWorkouts(userID string, entries []workout.Entry) {
	b.Ledger(userID).ReplaceWorkouts(entries)
}

// AddWorkout records a stored workout in the user's ledger.
func (b *Book) AddWorkout(userID string, e workout.Entry) {
	b.Ledger(userID).AddWorkout(e)
}

// RemoveWorkout drops a deleted workout from the user's ledger.
func (b *Book) RemoveWorkout(userID, id string) {
	b.Ledger(userID).RemoveWorkout(id)
}

// UpdateWorkout applies a stored workout edit to the user's ledger.
func (b *Book) UpdateWorkout(userID, id string, patch workout.Patch) {
	b.Ledger(userID).UpdateWorkout(id, patch)
}
