package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Values of the "session" label.
const (
	SessionPresent = "present"
	SessionAbsent  = "absent"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route and status class",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "route", "class"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, status class and session cookie presence",
		},
		[]string{"method", "route", "class", "session"},
	)

	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestsInFlight)
}

// Middleware records request duration and count labelled by the chi route
// pattern and the status class (2xx, 4xx, ...). Requests are also split by
// whether they carry the session cookie, which separates stored-query
// traffic from stateless calls. Requests no route matched are labelled
// "unmatched".
func Middleware(sessionCookie string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			class := statusClass(ww.Status())

			httpRequestDuration.WithLabelValues(r.Method, route, class).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, class, sessionLabel(r, sessionCookie)).Inc()
		})
	}
}

// statusClass maps a status code to its class. Nothing written means 200.
func statusClass(status int) string {
	if status == 0 {
		status = http.StatusOK
	}
	return strconv.Itoa(status/100) + "xx"
}

func sessionLabel(r *http.Request, cookie string) string {
	if cookie == "" {
		return SessionAbsent
	}
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		return SessionPresent
	}
	return SessionAbsent
}
