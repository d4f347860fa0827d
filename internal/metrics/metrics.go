// Package metrics defines the Prometheus collectors for comparisons.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the comparison collectors registered on one registry.
type Metrics struct {
	created     *prometheus.CounterVec
	failed      *prometheus.CounterVec
	duration    prometheus.Histogram
	cacheLookup *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		created: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comparisons_created_total",
				Help: "Total number of comparisons stored, by winning strategy",
			},
			[]string{"better_investment"},
		),
		failed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comparisons_failed_total",
				Help: "Total number of comparisons that could not be created",
			},
			[]string{"reason"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "comparison_calculation_duration_seconds",
				Help:    "Duration of the projection calculation in seconds",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),
		cacheLookup: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comparison_cache_lookups_total",
				Help: "Comparison cache lookups, by result",
			},
			[]string{"result"},
		),
	}
}

// Failure reasons.
const (
	ReasonInvalid = "invalid"
	ReasonStorage = "storage"
)

// ComparisonCreated counts a stored comparison.
func (m *Metrics) ComparisonCreated(better string) {
	m.created.WithLabelValues(better).Inc()
}

// ComparisonFailed counts a comparison rejected for reason.
func (m *Metrics) ComparisonFailed(reason string) {
	m.failed.WithLabelValues(reason).Inc()
}

// ObserveCalculation records how long a calculation took.
func (m *Metrics) ObserveCalculation(d time.Duration) {
	m.duration.Observe(d.Seconds())
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookup.WithLabelValues(result).Inc()
}
