// Package openfoodfacts searches the Open Food Facts product database.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/food"
)

// DefaultBaseURL is the public Open Food Facts host.
const DefaultBaseURL = "https://world.openfoodfacts.org"

// Client calls the Open Food Facts search endpoint.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	logger   *slog.Logger
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

// NewClient creates a search client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		pageSize: opts.PageSize,
		http:     &http.Client{Timeout: opts.Timeout},
		logger:   logger,
	}
}

type searchResponse struct {
	Products []product `json:"products"`
}

type product struct {
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	ImageURL    string         `json:"image_url"`
	Nutriments  map[string]any `json:"nutriments"`
}

// Search returns products matching query with per-100g values. Products
// without positive calories are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]food.Candidate, error) {
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", strconv.Itoa(c.pageSize))
	u := c.baseURL + "/cgi/search.pl?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build food search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.logger.Debug("food database search", "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call food database: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read food database response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food database API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parse food database JSON: %w", err)
	}

	out := make([]food.Candidate, 0, len(sr.Products))
	for _, p := range sr.Products {
		cand := p.candidate(query)
		if cand.Calories > 0 {
			out = append(out, cand)
		}
	}
	return out, nil
}

func (p product) candidate(query string) food.Candidate {
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = query
	}
	return food.Candidate{
		Record: nutrition.Record{
			Name:     name,
			Calories: nutriment(p.Nutriments, "energy-kcal_100g", "energy-kcal"),
			Protein:  nutriment(p.Nutriments, "proteins_100g", "proteins"),
			Carbs:    nutriment(p.Nutriments, "carbohydrates_100g", "carbohydrates"),
			Fats:     nutriment(p.Nutriments, "fat_100g", "fat"),
			Serving:  "100g",
		},
		Origin:   food.OriginExternal,
		Brand:    strings.TrimSpace(p.Brands),
		ImageURL: p.ImageURL,
	}
}

// nutriment returns the first usable value among keys, rounded and clamped at 0.
func nutriment(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := extractFloat(m, k); ok && v > 0 {
			return int(math.Round(v))
		}
	}
	return 0
}

// extractFloat coerces a nutriments value, which may be a number or a string.
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
