package food_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDatabase struct {
	calls   atomic.Int32
	results []food.Candidate
	err     error
}

func (s *stubDatabase) Search(ctx context.Context, query string) ([]food.Candidate, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]food.Candidate, len(s.results))
	copy(out, s.results)
	return out, nil
}

type stubRecognizer struct {
	tags []food.Tag
	err  error
}

func (s stubRecognizer) Recognize(ctx context.Context, image []byte) ([]food.Tag, error) {
	return s.tags, s.err
}

func external(name string, cal int) food.Candidate {
	return food.Candidate{Record: nutrition.Record{Name: name, Calories: cal, Serving: "100g"}}
}

func TestResolveByName_ReferenceHitIsCached(t *testing.T) {
	ctx := context.Background()
	db := &stubDatabase{}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	first, err := r.ResolveByName(ctx, "Chicken Breast")
	require.NoError(t, err)
	second, err := r.ResolveByName(ctx, "  chicken breast ")
	require.NoError(t, err)

	assert.LessOrEqual(t, db.calls.Load(), int32(1))
	assert.Equal(t, first, second)
	assert.Equal(t, food.OriginLocal, first.Origin)
	assert.Equal(t, 165, first.Calories)
	assert.Equal(t, 31, first.Protein)
}

func TestResolveByName_ExternalSkipsZeroCalories(t *testing.T) {
	db := &stubDatabase{results: []food.Candidate{external("Kombucha Zero", 0), external("Kombucha", 18)}}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	cand, err := r.ResolveByName(context.Background(), "kombucha")
	require.NoError(t, err)
	assert.Equal(t, "Kombucha", cand.Name)
	assert.Equal(t, food.OriginExternal, cand.Origin)

	_, err = r.ResolveByName(context.Background(), "KOMBUCHA")
	require.NoError(t, err)
	assert.Equal(t, int32(1), db.calls.Load())
}

func TestResolveByName_FallbackEstimate(t *testing.T) {
	db := &stubDatabase{}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	cand, err := r.ResolveByName(context.Background(), "zzznotfoodzzz")
	require.NoError(t, err)
	assert.Equal(t, 150, cand.Calories)
	assert.Equal(t, 5, cand.Protein)
	assert.Equal(t, 20, cand.Carbs)
	assert.Equal(t, 5, cand.Fats)
	assert.True(t, cand.Estimated)
	assert.Equal(t, food.OriginFallback, cand.Origin)
	assert.Equal(t, food.FallbackServing, cand.Serving)
}

func TestResolveByName_ExternalFailureDegradesToFallback(t *testing.T) {
	db := &stubDatabase{err: errors.New("timeout")}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	cand, err := r.ResolveByName(context.Background(), "mystery stew")
	require.NoError(t, err)
	assert.True(t, cand.Estimated)
	assert.Equal(t, "mystery stew", cand.Name)
}

func TestResolveByName_EmptyName(t *testing.T) {
	r := food.NewResolver(nil, nil, nil, nil, food.DefaultConfig(), nil)
	_, err := r.ResolveByName(context.Background(), "  ")
	assert.ErrorIs(t, err, food.ErrEmptyQuery)
}

func TestSearchByName_MergeDeduplicates(t *testing.T) {
	db := &stubDatabase{results: []food.Candidate{
		external("APPLE", 50),
		external("Apple Pie", 237),
		external("apple pie", 240),
		external("Applesauce", 0),
	}}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	got := r.SearchByName(context.Background(), "app")
	require.Len(t, got, 2)
	assert.Equal(t, "Apple", got[0].Name)
	assert.Equal(t, food.OriginLocal, got[0].Origin)
	assert.Equal(t, 52, got[0].Calories)
	assert.Equal(t, "Apple Pie", got[1].Name)
	assert.Equal(t, food.OriginExternal, got[1].Origin)
}

func TestSearchByName_ExternalFailureKeepsLocal(t *testing.T) {
	db := &stubDatabase{err: errors.New("status 503")}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	got := r.SearchByName(context.Background(), "rice")
	require.Len(t, got, 2)
	assert.Equal(t, "White Rice", got[0].Name)
	assert.Equal(t, "Brown Rice", got[1].Name)
}

func TestSearchByName_EmptyQuerySkipsLookups(t *testing.T) {
	db := &stubDatabase{}
	r := food.NewResolver(nil, db, nil, nil, food.DefaultConfig(), nil)

	got := r.SearchByName(context.Background(), "   ")
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Zero(t, db.calls.Load())
}

func TestSearchByName_DoesNotTouchCache(t *testing.T) {
	cache := food.NewCache()
	r := food.NewResolver(nil, &stubDatabase{}, nil, cache, food.DefaultConfig(), nil)
	r.SearchByName(context.Background(), "banana")
	assert.Zero(t, cache.Len())
}

func TestResolveImageTags_FiltersToFood(t *testing.T) {
	r := food.NewResolver(nil, nil, nil, nil, food.DefaultConfig(), nil)
	got := r.ResolveImageTags([]food.Tag{
		{Name: "table", Confidence: 95},
		{Name: "fried chicken", Confidence: 88.26},
		{Name: "plate", Confidence: 80},
		{Name: "food", Confidence: 70},
		{Name: "green salad", Confidence: 25},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Fried Chicken", got[0].Name)
	require.NotNil(t, got[0].Confidence)
	assert.Equal(t, 88.3, *got[0].Confidence)
	assert.Equal(t, "Food", got[1].Name)
	assert.Equal(t, food.OriginImage, got[1].Origin)
	assert.Zero(t, got[1].Calories)
}

func TestResolveImageTags_CapitalizesNonASCII(t *testing.T) {
	r := food.NewResolver(nil, nil, nil, nil, food.DefaultConfig(), nil)
	got := r.ResolveImageTags([]food.Tag{
		{Name: "çorba soup", Confidence: 80},
		{Name: "ÉCLAIR dessert", Confidence: 70},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Çorba Soup", got[0].Name)
	assert.Equal(t, "Éclair Dessert", got[1].Name)
	for _, c := range got {
		assert.True(t, utf8.ValidString(c.Name), c.Name)
	}
}

func TestResolveImageTags_FallsBackToTopConfident(t *testing.T) {
	r := food.NewResolver(nil, nil, nil, nil, food.DefaultConfig(), nil)
	got := r.ResolveImageTags([]food.Tag{
		{Name: "table", Confidence: 40},
		{Name: "wood", Confidence: 90},
		{Name: "plate", Confidence: 85},
		{Name: "kitchen", Confidence: 60},
		{Name: "person", Confidence: 55},
		{Name: "indoor", Confidence: 50},
		{Name: "blur", Confidence: 10},
	})

	require.Len(t, got, 5)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Wood", "Plate", "Kitchen", "Person", "Indoor"}, names)
}

func TestResolveImageTags_ConfigurableThresholds(t *testing.T) {
	cfg := food.DefaultConfig()
	cfg.MinConfidence = 60
	cfg.MaxCandidates = 1
	r := food.NewResolver(nil, nil, nil, nil, cfg, nil)

	got := r.ResolveImageTags([]food.Tag{
		{Name: "banana", Confidence: 61},
		{Name: "apple", Confidence: 75},
		{Name: "orange", Confidence: 59},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Apple", got[0].Name)
}

func TestRecognizeImage_FailureIsDistinctFromEmpty(t *testing.T) {
	ctx := context.Background()

	failing := food.NewResolver(nil, nil, stubRecognizer{err: errors.New("edge function 500")}, nil, food.DefaultConfig(), nil)
	_, err := failing.RecognizeImage(ctx, []byte("img"))
	require.ErrorIs(t, err, food.ErrRecognitionFailed)

	empty := food.NewResolver(nil, nil, stubRecognizer{}, nil, food.DefaultConfig(), nil)
	got, err := empty.RecognizeImage(ctx, []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, got)

	none := food.NewResolver(nil, nil, nil, nil, food.DefaultConfig(), nil)
	_, err = none.RecognizeImage(ctx, []byte("img"))
	assert.ErrorIs(t, err, food.ErrNoRecognizer)
}
