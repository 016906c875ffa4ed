package workout

import "context"

// Repository persists workouts in the remote store.
type Repository interface {
	Create(ctx context.Context, userID string, entry *Entry) error
	Update(ctx context.Context, userID, id string, patch Patch) (*Entry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Entry, error)
}

// Ledger receives confirmed workout changes for a user's in-memory day.
type Ledger interface {
	ReplaceWorkouts(userID string, entries []Entry)
	AddWorkout(userID string, entry Entry)
	RemoveWorkout(userID, id string)
	UpdateWorkout(userID, id string, patch Patch)
}
