package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRecommendation_Outcomes(t *testing.T) {
	matched := testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeMatched))
	empty := testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeEmpty))
	failed := testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeError))

	ObserveRecommendation(3, time.Millisecond)
	ObserveRecommendation(0, time.Millisecond)
	ObserveRecommendationError()

	assert.Equal(t, matched+1, testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, empty+1, testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, failed+1, testutil.ToFloat64(recommendationsTotal.WithLabelValues(OutcomeError)))
}

func TestMiddleware_RecordsRoutePatternAndClass(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("sid"))
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/items/{id}", "4xx", SessionAbsent))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items/42", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, before+1,
		testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/items/{id}", "4xx", SessionAbsent)))
	assert.Positive(t, testutil.CollectAndCount(httpRequestDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(httpRequestsInFlight))
}

func TestMiddleware_SessionCookie(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("sid"))
	r.Get("/stored", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/stored", "2xx", SessionPresent))

	req := httptest.NewRequest(http.MethodGet, "/stored", http.NoBody)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "session-1"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1,
		testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/stored", "2xx", SessionPresent)))
}

func TestMiddleware_Unmatched(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("sid"))
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "4xx", SessionAbsent))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	assert.Equal(t, before+1,
		testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "4xx", SessionAbsent)))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(0))
	assert.Equal(t, "2xx", statusClass(http.StatusNoContent))
	assert.Equal(t, "4xx", statusClass(http.StatusUnprocessableEntity))
	assert.Equal(t, "5xx", statusClass(http.StatusInternalServerError))
}
