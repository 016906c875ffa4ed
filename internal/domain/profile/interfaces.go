package profile

import "context"

// Repository persists profiles.
type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, patch Patch) (*Profile, error)
}
