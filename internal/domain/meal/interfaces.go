package meal

import "context"

// Repository persists meals in the remote store.
type Repository interface {
	Create(ctx context.Context, userID string, entry *Entry) error
	Update(ctx context.Context, userID, id string, patch Patch) (*Entry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, opts ListOptions) ([]Entry, error)
}

// BatchDeleter is implemented by stores that can delete several meals in one call.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, userID string, ids []string) error
}

// Ledger receives confirmed meal changes for a user's in-memory day.
type Ledger interface {
	ReplaceMeals(userID string, entries []Entry)
	AddMeal(userID string, entry Entry)
	RemoveMeal(userID, id string)
	UpdateMeal(userID, id string, patch Patch)
}

// PhotoStore uploads meal photos and returns a reference to the stored image.
type PhotoStore interface {
	Upload(ctx context.Context, userID string, photo Photo) (string, error)
}

// Photo is an encoded meal image.
type Photo struct {
	Data        []byte
	ContentType string
}
