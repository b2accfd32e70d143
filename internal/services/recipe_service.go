// Package services – RecipeService
//
// This file implements RecipeService, the application-level component that
// orchestrates every request against the recipe index: ranked ingredient
// search (normalize → vectorize → rank → join), random browsing, category
// lookup, and by-id fetches. It validates inputs, reads the immutable index
// published by search.Store, and records search usage best effort.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// query, result-count, and corpus attributes where applicable.
package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// searchesTotal counts ranked searches by outcome (hit/miss/error).
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_searches_total",
			Help: "Total number of ingredient searches.",
		},
		[]string{"outcome"},
	)

	// searchResults captures the result count distribution per search.
	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_search_results",
			Help:    "Number of results returned per search.",
			Buckets: []float64{0, 1, 2, 3, 5, 6, 10, 20, 50},
		},
	)
)

func init() {
	prometheus.MustRegister(searchesTotal, searchResults)
}

// ScoredRecipe is a search hit: the full recipe annotated with its cosine
// similarity score in [0,1].
type ScoredRecipe struct {
	domain.Recipe
	SimilarityScore float64 `json:"similarityScore" example:"0.83"`
}

// Stats aggregates corpus and usage numbers for the stats endpoint.
type Stats struct {
	Recipes        int               `json:"recipes"`
	Categories     int               `json:"categories"`
	VocabularySize int               `json:"vocabulary_size"`
	Searches       int64             `json:"searches"`
	LastSearch     *time.Time        `json:"last_search,omitempty"`
	TopQueries     []repo.QueryCount `json:"top_queries,omitempty"`
}

// CorpusLoader loads the raw recipe corpus, e.g. from the dataset CSV.
// Used by Reload to rebuild the index off to the side.
type CorpusLoader func(ctx context.Context) ([]domain.Recipe, error)

// RecipeService coordinates index reads and search-log writes.
//
// Store is required. DB is optional: when nil, searches are not recorded.
// Rand is optional and exists so tests can inject a seeded source; when nil,
// the shared math/rand source is used.
type RecipeService struct {
	Store  *search.Store
	DB     *gorm.DB
	Loader CorpusLoader

	Rand   *rand.Rand
	randMu sync.Mutex
}

// index returns the currently published index.
func (s *RecipeService) index() (*search.Index, error) {
	if s.Store == nil {
		return nil, ErrNoIndex
	}
	ix := s.Store.Load()
	if ix == nil {
		return nil, ErrNoIndex
	}
	return ix, nil
}

// Search ranks the corpus against a free-text ingredient list and returns the
// topN best matches joined back to their full recipes.
//
// Blank entries are dropped; an entirely blank list fails with ErrEmptyQuery,
// and topN <= 0 fails with ErrInvalidTopN — both before any index work.
// A query that shares no tokens with the corpus succeeds with an empty slice.
func (s *RecipeService) Search(ctx context.Context, ingredients []string, topN int) ([]ScoredRecipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int("search.top_n", topN),
			attribute.Int("search.ingredients", len(ingredients)),
		),
	)
	defer span.End()

	start := time.Now()

	clean := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if t := strings.TrimSpace(ing); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, ErrEmptyQuery
	}
	if topN <= 0 {
		return nil, ErrInvalidTopN
	}

	ix, err := s.index()
	if err != nil {
		return nil, err
	}

	query := ix.QueryVector(clean)
	matches, err := ix.Rank(query, topN)
	if err != nil {
		// Rank only rejects non-positive topN, which was validated above;
		// anything surfacing here is an internal fault.
		searchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank: %w", err)
	}

	out := make([]ScoredRecipe, 0, len(matches))
	for _, m := range matches {
		r := ix.Get(m.ID)
		if r == nil {
			continue
		}
		out = append(out, ScoredRecipe{Recipe: *r, SimilarityScore: m.Score})
	}

	outcome := "hit"
	if len(out) == 0 {
		outcome = "miss"
	}
	searchesTotal.WithLabelValues(outcome).Inc()
	searchResults.Observe(float64(len(out)))

	span.SetAttributes(attribute.Int("search.results", len(out)))
	s.logSearch(ctx, strings.ToLower(strings.Join(clean, " ")), out, time.Since(start))
	return out, nil
}

// logSearch records one search best effort. Failures are logged and swallowed;
// they must never fail the request that produced them.
func (s *RecipeService) logSearch(ctx context.Context, query string, results []ScoredRecipe, took time.Duration) {
	if s.DB == nil {
		return
	}
	var topScore *float64
	if len(results) > 0 {
		topScore = &results[0].SimilarityScore
	}
	if _, err := repo.CreateSearchLog(ctx, s.DB, query, len(results), topScore, took.Milliseconds()); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("search log insert failed")
	}
}

// Random returns up to count recipes sampled uniformly without replacement.
// count is floored at 1 and capped by the sampler at the corpus size.
func (s *RecipeService) Random(ctx context.Context, count int) ([]*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	_, span := tr.Start(ctx, "Random",
		trace.WithAttributes(attribute.Int("sample.count", count)),
	)
	defer span.End()

	ix, err := s.index()
	if err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}

	s.randMu.Lock()
	defer s.randMu.Unlock()
	return ix.Sample(s.Rand, count), nil
}

// ByCategory returns the recipes whose category exactly matches the given
// name after case normalization, ordered by ascending id. Unknown categories
// yield an empty slice, not an error. Substring matching is deliberately not
// offered server-side; the exact lookup is the authoritative policy.
func (s *RecipeService) ByCategory(ctx context.Context, category string) ([]*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	_, span := tr.Start(ctx, "ByCategory",
		trace.WithAttributes(attribute.String("recipe.category", category)),
	)
	defer span.End()

	ix, err := s.index()
	if err != nil {
		return nil, err
	}
	return ix.ByCategory(category), nil
}

// Categories returns the distinct category names observed in the corpus,
// sorted alphabetically.
func (s *RecipeService) Categories(ctx context.Context) ([]string, error) {
	ix, err := s.index()
	if err != nil {
		return nil, err
	}
	return ix.Categories(), nil
}

// Get returns the recipe with the given id, or ErrRecipeNotFound.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	_, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("recipe.id", id)),
	)
	defer span.End()

	ix, err := s.index()
	if err != nil {
		return nil, err
	}
	r := ix.Get(strings.TrimSpace(id))
	if r == nil {
		return nil, ErrRecipeNotFound
	}
	return r, nil
}

// Stats returns corpus and usage aggregates. Search-log aggregates are
// skipped when no database is configured.
func (s *RecipeService) Stats(ctx context.Context) (Stats, error) {
	ix, err := s.index()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Recipes:        ix.Len(),
		Categories:     len(ix.Categories()),
		VocabularySize: ix.Vocabulary().Size(),
	}
	if s.DB == nil {
		return st, nil
	}

	count, last, err := repo.SearchStats(ctx, s.DB)
	if err != nil {
		return Stats{}, err
	}
	st.Searches = count
	st.LastSearch = last

	top, err := repo.TopQueries(ctx, s.DB, 5)
	if err != nil {
		return Stats{}, err
	}
	st.TopQueries = top
	return st, nil
}

// Reload re-ingests the corpus via the configured loader, builds a fresh
// index fully off to the side, and publishes it atomically. Requests in
// flight keep the index they started with; a failed reload leaves the
// previous index in place.
func (s *RecipeService) Reload(ctx context.Context) error {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Reload")
	defer span.End()

	if s.Loader == nil {
		return fmt.Errorf("no corpus loader configured")
	}
	recipes, err := s.Loader(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	ix, err := search.Build(recipes)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	s.Store.Swap(ix)
	log.Info().Int("recipes", ix.Len()).Int("vocabulary", ix.Vocabulary().Size()).Msg("recipe index reloaded")
	return nil
}
