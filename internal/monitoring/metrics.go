package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Optimization metrics
	optimizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundary_optimizer_runs_total",
			Help: "Total number of combined optimization runs",
		},
		[]string{"outcome"},
	)

	optimizationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boundary_optimizer_run_duration_seconds",
			Help:    "Distribution of combined optimization run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"best_method"},
	)

	// Strategy metrics
	strategyScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boundary_optimizer_strategy_score",
			Help: "Latest validation score per strategy",
		},
		[]string{"strategy"},
	)

	strategyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundary_optimizer_strategy_failures_total",
			Help: "Total number of per-strategy failures inside combined runs",
		},
		[]string{"strategy"},
	)

	// Validation metrics
	foldDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boundary_optimizer_fold_duration_seconds",
			Help:    "Distribution of cross-validation fold durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)
)

func init() {
	prometheus.MustRegister(optimizationsTotal)
	prometheus.MustRegister(optimizationDuration)
	prometheus.MustRegister(strategyScore)
	prometheus.MustRegister(strategyFailures)
	prometheus.MustRegister(foldDuration)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordOptimization records one combined optimization run.
func RecordOptimization(bestMethod string, duration time.Duration, failed bool) {
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	optimizationsTotal.WithLabelValues(outcome).Inc()
	if bestMethod != "" {
		optimizationDuration.WithLabelValues(bestMethod).Observe(duration.Seconds())
	}
}

// RecordStrategyScore updates the latest validation score for a strategy.
func RecordStrategyScore(strategy string, score float64) {
	strategyScore.WithLabelValues(strategy).Set(score)
}

// RecordStrategyFailure counts a per-strategy failure inside a combined run.
func RecordStrategyFailure(strategy string) {
	strategyFailures.WithLabelValues(strategy).Inc()
}

// RecordFold records one cross-validation fold execution.
func RecordFold(scheme string, duration time.Duration) {
	foldDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}
