// Package supabase talks to the hosted backend: PostgREST tables, the
// recognize-food edge function, and password sign-in.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/repository"
)

// TokenSource supplies the bearer token for a call. An empty token falls
// back to the anon key.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client is a thin HTTP client for one backend project.
type Client struct {
	baseURL string
	anonKey string
	tokens  TokenSource
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client. tokens may be nil for anonymous access.
func NewClient(baseURL, anonKey string, tokens TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type apiError struct {
	Message          string `json:"message"`
	Code             string `json:"code"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.ErrorDescription, e.Msg, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// request describes one backend call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	prefer string
	// anon sends only the anon key, as for sign-in.
	anon bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer(ctx, r.anon))
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}
	c.logger.Debug("backend request", "method", r.method, "path", r.path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backend response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse backend response: %w", err)
	}
	return nil
}

func (c *Client) bearer(ctx context.Context, anon bool) string {
	if !anon && c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			return tok
		}
	}
	return c.anonKey
}

func statusError(status int, body []byte) error {
	var ae apiError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &ae) == nil && ae.text() != "" {
		msg = ae.text()
	}
	var kind error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = repository.ErrUnauthorized
	case http.StatusNotFound, http.StatusNotAcceptable:
		kind = repository.ErrNotFound
	case http.StatusConflict:
		kind = repository.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = repository.ErrInvalidInput
	default:
		return fmt.Errorf("backend error %d: %s", status, msg)
	}
	return fmt.Errorf("%w: backend status %d: %s", kind, status, msg)
}

func eq(v string) string { return "eq." + v }

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// rangeQuery adds PostgREST filters for a user, an optional time window on
// column, ordering and limit.
func rangeQuery(userID, column string, from, to time.Time, ascending bool, limit int) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", eq(userID))
	if !from.IsZero() {
		q.Add(column, "gte."+timestamp(from))
	}
	if !to.IsZero() {
		q.Add(column, "lte."+timestamp(to))
	}
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.Set("order", column+"."+dir)
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
