package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rpggio/nutrilog/internal/auth"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	q := url.Values{}
	q.Set("grant_type", "password")
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  q,
		body:   map[string]string{"email": email, "password": password},
		anon:   true,
	}, &tr)
	if err != nil {
		return auth.Session{}, fmt.Errorf("sign in: %w", err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return auth.Session{}, errors.New("sign in: response missing token or user")
	}
	s := auth.Session{
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
	if tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}
