package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripmatch/internal/metrics"
	"tripmatch/internal/recommend"
	"tripmatch/internal/score"
)

const maxBodyBytes = 1 << 16

// Recommender produces ranked destinations for a query or a stored session query.
type Recommender interface {
	Recommend(ctx context.Context, q score.Query) ([]recommend.Recommendation, error)
	RecommendStored(ctx context.Context, id string) ([]recommend.Recommendation, error)
}

// QueryWriter stores the current query of a session.
type QueryWriter interface {
	Put(id string, q score.Query)
}

// ApiV1Router manages routes for API version 1.
type ApiV1Router struct {
	// recommender: the inference facade.
	recommender Recommender
	// queries: fact store the stored-query endpoints write to.
	queries QueryWriter
	// static: path to directory with static files.
	// If empty, static file serving is disabled.
	static string
	// sessionCookie: name of cookie identifying a session.
	sessionCookie string
}

// Mux returns a configured chi router with registered handlers:
//   - POST /api/v1/recommendations: recommendations for the query in the body
//   - PUT  /api/v1/queries: stores the session's query
//   - GET  /api/v1/recommendations: recommendations for the stored session query
//   - GET  /metrics: prometheus metrics
//   - GET  /static/...: static files (if enabled)
func (ar *ApiV1Router) Mux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(ar.sessionCookie))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", ar.recommendHandler)
		r.Get("/recommendations", ar.storedRecommendHandler)
		r.Put("/queries", ar.queryHandler)
	})
	r.Handle("/metrics", promhttp.Handler())

	if len(ar.static) != 0 {
		fs := http.FileServer(http.Dir(ar.static))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	return r
}

// recommendHandler handles stateless recommendation requests.
func (ar *ApiV1Router) recommendHandler(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	results, err := ar.recommender.Recommend(r.Context(), q)
	if err != nil {
		writeRecommendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// queryHandler stores the query in the body as the session's current query.
func (ar *ApiV1Router) queryHandler(w http.ResponseWriter, r *http.Request) {
	session := ar.session(r)
	if len(session) == 0 {
		slog.Warn("Empty session token")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	q, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	ar.queries.Put(session, q)
	w.WriteHeader(http.StatusNoContent)
}

// storedRecommendHandler answers with recommendations for the session's
// stored query, 404 when none is stored.
func (ar *ApiV1Router) storedRecommendHandler(w http.ResponseWriter, r *http.Request) {
	session := ar.session(r)
	if len(session) == 0 {
		slog.Warn("Empty session token")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	results, err := ar.recommender.RecommendStored(r.Context(), session)
	if err != nil {
		writeRecommendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (ar *ApiV1Router) session(r *http.Request) string {
	cookie, err := r.Cookie(ar.sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// decodeQuery reads and validates a query body, answering the request itself
// on failure.
func decodeQuery(w http.ResponseWriter, r *http.Request) (score.Query, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		slog.Warn("Unable to read query request body", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return score.Query{}, false
	}

	var q score.Query
	if err := json.Unmarshal(body, &q); err != nil {
		slog.Warn("Unable to unmarshal query request body", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return score.Query{}, false
	}

	if err := q.Validate(); err != nil {
		slog.Warn("Invalid query", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return score.Query{}, false
	}
	return q, true
}

func writeRecommendError(w http.ResponseWriter, err error) {
	var notFound *recommend.QueryNotFoundError
	switch {
	case errors.As(err, &notFound):
		slog.Warn("Query not found", "error", err)
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, score.ErrInvalidQuery):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		slog.Error("Recommendation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NewApiV1Router creates a new API v1 router.
// Parameters:
// - static: path to static files (can be empty)
// - sessionCookie: cookie name for session identification
// - recommender: inference facade
// - queries: fact store for session queries
func NewApiV1Router(
	static string,
	sessionCookie string,
	recommender Recommender,
	queries QueryWriter,
) *ApiV1Router {
	return &ApiV1Router{
		recommender:   recommender,
		queries:       queries,
		static:        static,
		sessionCookie: sessionCookie,
	}
}
