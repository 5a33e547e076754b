package recommend

import (
	"context"
	"log/slog"
	"time"

	"tripmatch/internal/catalog"
	"tripmatch/internal/metrics"
	"tripmatch/internal/score"
)

// QueryNotFoundError is returned when a session has no stored query.
type QueryNotFoundError struct {
	message string
}

// Error returns the error description.
func (e *QueryNotFoundError) Error() string {
	return e.message
}

// NewQueryNotFoundError creates a QueryNotFoundError for session id.
func NewQueryNotFoundError(id string) *QueryNotFoundError {
	return &QueryNotFoundError{message: "query not found: " + id}
}

// QueryStore provides the current query of a session.
type QueryStore interface {
	Get(id string) (score.Query, bool)
}

// Recorder receives every served recommendation.
type Recorder interface {
	Append(session string, q score.Query, results []Recommendation)
}

// Engine is the inference facade: it scores the catalog for a query,
// applies the hard filters and returns the ranked short-list.
//
// The catalog, scorer and ranker are never mutated after construction, so one
// Engine serves concurrent requests; each call carries its own query.
type Engine struct {
	catalog  *catalog.Catalog
	scorer   score.Scorer
	ranker   *Ranker
	queries  QueryStore // optional
	recorder Recorder   // optional
}

// Recommend returns at most TopK destinations for q, best first.
// No surviving destination gives an empty slice and a nil error.
func (e *Engine) Recommend(ctx context.Context, q score.Query) ([]Recommendation, error) {
	return e.recommend(ctx, "", q)
}

// RecommendStored is Recommend for the query currently stored for session id.
// Returns *QueryNotFoundError when nothing is stored.
func (e *Engine) RecommendStored(ctx context.Context, id string) ([]Recommendation, error) {
	if e.queries == nil {
		return nil, NewQueryNotFoundError(id)
	}
	q, found := e.queries.Get(id)
	if !found {
		return nil, NewQueryNotFoundError(id)
	}
	return e.recommend(ctx, id, q)
}

func (e *Engine) recommend(ctx context.Context, session string, q score.Query) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		metrics.ObserveRecommendationError()
		return nil, err
	}
	if err := q.Validate(); err != nil {
		metrics.ObserveRecommendationError()
		return nil, err
	}

	start := time.Now()
	scores := e.scorer.Score(q, e.catalog)
	results := e.ranker.Rank(q, e.catalog, scores)
	if len(results) > e.ranker.TopK() {
		results = results[:e.ranker.TopK()]
	}
	elapsed := time.Since(start)

	metrics.ObserveRecommendation(len(results), elapsed)
	slog.Debug("recommendation served",
		"session", session,
		"budget", q.Budget,
		"month", q.Month,
		"lodging", q.Lodging,
		"results", len(results),
		"elapsed", elapsed,
	)

	if e.recorder != nil {
		e.recorder.Append(session, q, results)
	}
	return results, nil
}

// Catalog returns the catalog the engine scores.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// NewEngine creates the inference facade.
// Parameters:
//   - c: the loaded catalog
//   - scorer: the aggregate scorer, built from rules bound to c
//   - ranker: hard filters and top-K selection
//   - queries: fact store for RecommendStored (may be nil)
//   - recorder: sink for served recommendations (may be nil)
func NewEngine(c *catalog.Catalog, scorer score.Scorer, ranker *Ranker, queries QueryStore, recorder Recorder) *Engine {
	if ranker == nil {
		ranker = NewRanker(DefaultTopK)
	}
	return &Engine{
		catalog:  c,
		scorer:   scorer,
		ranker:   ranker,
		queries:  queries,
		recorder: recorder,
	}
}
