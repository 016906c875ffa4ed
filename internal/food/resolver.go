package food

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"golang.org/x/sync/errgroup"
)

// Fallback nutrition used when no source knows a food.
const (
	FallbackCalories = 150
	FallbackProtein  = 5
	FallbackCarbs    = 20
	FallbackFats     = 5
	FallbackServing  = "100g (estimated)"
)

// Config tunes image tag filtering.
type Config struct {
	// MinConfidence is the exclusive lower bound a tag's confidence must exceed.
	MinConfidence float64
	// MaxCandidates caps the number of tags turned into candidates.
	MaxCandidates int
	// Vocabulary lists the keywords that mark a tag as food.
	Vocabulary []string
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 30,
		MaxCandidates: 5,
		Vocabulary:    FoodVocabulary,
	}
}

// Resolver turns queries and recognized tags into candidates. The reference
// table takes precedence over the external database, and single-name
// resolutions are cached.
type Resolver struct {
	table      *ReferenceTable
	db         Database
	recognizer Recognizer
	cache      *Cache
	cfg        Config
	logger     *slog.Logger
}

// NewResolver creates a resolver. db and recognizer may be nil.
func NewResolver(table *ReferenceTable, db Database, recognizer Recognizer, cache *Cache, cfg Config, logger *slog.Logger) *Resolver {
	if table == nil {
		table = DefaultReferenceTable()
	}
	if cache == nil {
		cache = NewCache()
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultConfig().MaxCandidates
	}
	if len(cfg.Vocabulary) == 0 {
		cfg.Vocabulary = FoodVocabulary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		table:      table,
		db:         db,
		recognizer: recognizer,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// ResolveByName returns one candidate for name: a cached result, else the
// first reference-table match, else the first external result with calories,
// else a fixed estimate. External failures degrade to the estimate.
func (r *Resolver) ResolveByName(ctx context.Context, name string) (Candidate, error) {
	key := NormalizeKey(name)
	if key == "" {
		return Candidate{}, ErrEmptyQuery
	}
	if cand, ok := r.cache.Get(key); ok {
		return cand, nil
	}

	cand, ok := r.table.Lookup(key)
	if !ok {
		cand, ok = r.firstExternal(ctx, strings.TrimSpace(name))
	}
	if !ok {
		cand = Fallback(name)
	}

	r.cache.Put(key, cand)
	return cand, nil
}

// SearchByName lists candidates for query. The reference table and the
// external database are searched concurrently and joined before merging;
// an external failure leaves only the local matches.
func (r *Resolver) SearchByName(ctx context.Context, query string) []Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Candidate{}
	}

	var local, external []Candidate
	var g errgroup.Group
	g.Go(func() error {
		local = r.table.Search(query)
		return nil
	})
	g.Go(func() error {
		var err error
		external, err = r.searchExternal(ctx, query)
		return err
	})

	// Join: both lookups have finished past this point.
	if err := g.Wait(); err != nil {
		r.logger.Warn("food database search failed", "query", query, "error", err)
		external = nil
	}
	return Merge(local, external)
}

// Merge appends external candidates with calories to local ones, skipping
// any whose name already appears, case-insensitively.
func Merge(local, external []Candidate) []Candidate {
	out := make([]Candidate, 0, len(local)+len(external))
	out = append(out, local...)
	for _, c := range external {
		if c.Calories <= 0 {
			continue
		}
		dup := slices.ContainsFunc(out, func(existing Candidate) bool {
			return sameName(existing.Name, c.Name)
		})
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// ResolveImageTags keeps confident food tags, best first, up to the
// configured cap. When no confident tag is food, the most confident tags are
// returned instead. Candidates carry zero calories until resolved by name.
func (r *Resolver) ResolveImageTags(tags []Tag) []Candidate {
	seen := make(map[string]bool)
	var confident []Tag
	for _, t := range tags {
		key := NormalizeKey(t.Name)
		if key == "" || seen[key] || t.Confidence <= r.cfg.MinConfidence {
			continue
		}
		seen[key] = true
		confident = append(confident, t)
	}
	slices.SortStableFunc(confident, func(a, b Tag) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	var foods []Tag
	for _, t := range confident {
		if matchesVocabulary(t.Name, r.cfg.Vocabulary) {
			foods = append(foods, t)
		}
	}
	chosen := foods
	if len(chosen) == 0 {
		chosen = confident
	}
	if len(chosen) > r.cfg.MaxCandidates {
		chosen = chosen[:r.cfg.MaxCandidates]
	}

	out := make([]Candidate, 0, len(chosen))
	for _, t := range chosen {
		conf := math.Round(min(t.Confidence, 100)*10) / 10
		out = append(out, Candidate{
			Record: nutrition.Record{Name: capitalizeWords(t.Name), Confidence: &conf},
			Origin: OriginImage,
		})
	}
	return out
}

// RecognizeImage labels image with the configured recognizer and filters the
// tags. A failed recognizer call returns ErrRecognitionFailed; a successful
// call with no usable tags returns an empty list.
func (r *Resolver) RecognizeImage(ctx context.Context, image []byte) ([]Candidate, error) {
	if r.recognizer == nil {
		return nil, ErrNoRecognizer
	}
	tags, err := r.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}
	return r.ResolveImageTags(tags), nil
}

// Fallback returns the placeholder estimate for name.
func Fallback(name string) Candidate {
	return Candidate{
		Record: nutrition.Record{
			Name:     strings.TrimSpace(name),
			Calories: FallbackCalories,
			Protein:  FallbackProtein,
			Carbs:    FallbackCarbs,
			Fats:     FallbackFats,
			Serving:  FallbackServing,
		},
		Origin:    OriginFallback,
		Estimated: true,
	}
}

func (r *Resolver) firstExternal(ctx context.Context, name string) (Candidate, bool) {
	results, err := r.searchExternal(ctx, name)
	if err != nil {
		r.logger.Warn("food database lookup failed", "query", name, "error", err)
		return Candidate{}, false
	}
	for _, c := range results {
		if c.Calories > 0 {
			return c, true
		}
	}
	return Candidate{}, false
}

func (r *Resolver) searchExternal(ctx context.Context, query string) ([]Candidate, error) {
	if r.db == nil {
		return nil, nil
	}
	results, err := r.db.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Origin = OriginExternal
	}
	return results, nil
}
