package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/repository"
)

const profilesPath = "/rest/v1/profiles"

// ProfileRepository stores profiles in the profiles table, keyed by user id.
type ProfileRepository struct {
	c *Client
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(c *Client) *ProfileRepository {
	return &ProfileRepository{c: c}
}

// Upsert inserts or merges a profile row.
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	q := url.Values{}
	q.Set("on_conflict", "id")
	var out []profile.Profile
	err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   profilesPath,
		query:  q,
		body:   p,
		prefer: "resolution=merge-duplicates,return=representation",
	}, &out)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	if len(out) > 0 {
		*p = out[0]
	}
	return nil
}

// Get returns the user's profile.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", eq(userID))
	var out []profile.Profile
	if err := r.c.do(ctx, request{method: http.MethodGet, path: profilesPath, query: q}, &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return &out[0], nil
}

type profilePatch struct {
	profile.Patch
	UpdatedAt time.Time `json:"updated_at"`
}

// Update patches a profile and returns the stored row.
func (r *ProfileRepository) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		patch.Name = &n
	}
	q := url.Values{}
	q.Set("id", eq(userID))
	var out []profile.Profile
	err := r.c.do(ctx, request{
		method: http.MethodPatch,
		path:   profilesPath,
		query:  q,
		body:   profilePatch{Patch: patch, UpdatedAt: time.Now().UTC()},
		prefer: "return=representation",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return &out[0], nil
}
