package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": "eater@example.com",
		"exp":   exp.Unix(),
		"role":  "authenticated",
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifier_WithSecret(t *testing.T) {
	token := signed(t, "s3cret", "user-1", time.Now().Add(time.Hour))

	s, err := auth.NewVerifier("s3cret").Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "eater@example.com", s.Email)
	assert.Equal(t, token, s.AccessToken)

	_, err = auth.NewVerifier("other").Parse(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifier_Expired(t *testing.T) {
	token := signed(t, "s3cret", "user-1", time.Now().Add(-time.Minute))

	_, err := auth.NewVerifier("s3cret").Parse(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	_, err = auth.NewVerifier("").Parse(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifier_Unverified(t *testing.T) {
	token := signed(t, "backend-only", "user-2", time.Now().Add(time.Hour))

	s, err := auth.NewVerifier("").Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", s.UserID)

	_, err = auth.NewVerifier("").Parse("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewVerifier("").Parse(signed(t, "x", "", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestHolder_TokenPrefersContext(t *testing.T) {
	var h auth.Holder
	assert.Empty(t, h.Token(context.Background()))

	h.Set(auth.Session{UserID: "u", AccessToken: "held"})
	assert.Equal(t, "held", h.Token(context.Background()))

	ctx := auth.WithSession(context.Background(), auth.Session{UserID: "r", AccessToken: "request"})
	assert.Equal(t, "request", h.Token(ctx))

	h.Clear()
	_, err := h.Current()
	assert.ErrorIs(t, err, auth.ErrNoSession)
}
