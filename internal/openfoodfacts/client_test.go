package openfoodfacts_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/openfoodfacts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "count": 3,
  "products": [
    {"product_name": "Greek Yogurt", "brands": "Fage", "image_url": "https://img/1.jpg",
     "nutriments": {"energy-kcal_100g": 96.6, "proteins_100g": 9, "carbohydrates_100g": "3.9", "fat_100g": 5}},
    {"product_name": "", "brands": "",
     "nutriments": {"energy-kcal": 61, "proteins": 3.5, "carbohydrates": 4.7, "fat": 3.3}},
    {"product_name": "Diet Cola", "nutriments": {"energy-kcal_100g": 0}}
  ]
}`

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "yogurt", q.Get("search_terms"))
		assert.Equal(t, "1", q.Get("json"))
		assert.Equal(t, "5", q.Get("page_size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := openfoodfacts.NewClient(openfoodfacts.Options{BaseURL: srv.URL}, nil)
	got, err := c.Search(context.Background(), "yogurt")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Greek Yogurt", got[0].Name)
	assert.Equal(t, "Fage", got[0].Brand)
	assert.Equal(t, 97, got[0].Calories)
	assert.Equal(t, 4, got[0].Carbs)
	assert.Equal(t, "100g", got[0].Serving)
	assert.Equal(t, food.OriginExternal, got[0].Origin)

	assert.Equal(t, "yogurt", got[1].Name)
	assert.Equal(t, 61, got[1].Calories)
	assert.Equal(t, 4, got[1].Protein)
}

func TestClient_SearchErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"non-success status", http.StatusServiceUnavailable, "maintenance", "food database API error 503"},
		{"malformed payload", http.StatusOK, "<html>", "parse food database JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := openfoodfacts.NewClient(openfoodfacts.Options{BaseURL: srv.URL}, nil)
			_, err := c.Search(context.Background(), "rice")
			assert.ErrorContains(t, err, tc.want)
		})
	}
}
