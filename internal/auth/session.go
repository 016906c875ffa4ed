// Package auth reads the signed-in user's identity from backend access tokens.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrInvalidToken indicates an access token could not be parsed or verified.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrTokenExpired indicates an access token is past its expiry.
	ErrTokenExpired = errors.New("access token expired")
	// ErrNoSession indicates no user is signed in.
	ErrNoSession = errors.New("no active session")
)

// Session is an authenticated user and the bearer token for backend calls.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session's token has expired at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session carried by ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// Holder keeps the process's current session for single-user shells.
type Holder struct {
	mu      sync.RWMutex
	current *Session
}

// Set replaces the held session.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &s
}

// Clear drops the held session.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

// Current returns the held session.
func (h *Holder) Current() (Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Session{}, ErrNoSession
	}
	return *h.current, nil
}

// Token returns the bearer token for a backend call: the request's session
// when ctx carries one, otherwise the held session. Empty when neither exists.
func (h *Holder) Token(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.AccessToken
	}
	if h == nil {
		return ""
	}
	if s, err := h.Current(); err == nil {
		return s.AccessToken
	}
	return ""
}
