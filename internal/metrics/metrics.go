package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripmatch"

var (
	recommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	recommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent scoring and ranking one query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		},
	)

	recommendationResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Number of destinations returned per request",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)
)

// Outcomes of a recommendation request.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

func init() {
	prometheus.MustRegister(recommendationsTotal)
	prometheus.MustRegister(recommendationDuration)
	prometheus.MustRegister(recommendationResults)
}

// ObserveRecommendation records one served recommendation.
func ObserveRecommendation(results int, elapsed time.Duration) {
	outcome := OutcomeMatched
	if results == 0 {
		outcome = OutcomeEmpty
	}
	recommendationsTotal.WithLabelValues(outcome).Inc()
	recommendationDuration.Observe(elapsed.Seconds())
	recommendationResults.Observe(float64(results))
}

// ObserveRecommendationError records a failed recommendation request.
func ObserveRecommendationError() {
	recommendationsTotal.WithLabelValues(OutcomeError).Inc()
}
