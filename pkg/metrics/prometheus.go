package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	upstreamCalls *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	degradedUnits *prometheus.CounterVec
	collectedRows *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		upstreamCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homepulse_upstream_calls_total",
				Help: "Outbound calls to upstream open APIs",
			},
			[]string{"upstream", "result"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homepulse_cache_lookups_total",
				Help: "Summary cache lookups",
			},
			[]string{"cache", "result"},
		),
		degradedUnits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homepulse_degraded_units_total",
				Help: "Per-unit upstream failures absorbed as misses",
			},
			[]string{"kind"},
		),
		collectedRows: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homepulse_collected_deals",
				Help:    "Deals returned per multi-period collection",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"scope"},
		),
	}
}

// RecordUpstreamCall counts one outbound call with its result.
func (r *Recorder) RecordUpstreamCall(upstream, result string) {
	r.upstreamCalls.WithLabelValues(upstream, result).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordDegradedUnit counts a unit (category, period, page) folded to a miss.
func (r *Recorder) RecordDegradedUnit(kind string) {
	r.degradedUnits.WithLabelValues(kind).Inc()
}

// ObserveCollected records how many deals one collection produced.
func (r *Recorder) ObserveCollected(scope string, n int) {
	r.collectedRows.WithLabelValues(scope).Observe(float64(n))
}
