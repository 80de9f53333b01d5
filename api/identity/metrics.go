package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts resolutions by the cascade step that won.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenwatch_device_resolutions_total",
			Help: "Total number of device resolutions by match type and confidence",
		},
		[]string{"match_type", "confidence"},
	)

	// LookupErrorsTotal counts store failures swallowed by the cascade.
	LookupErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenwatch_device_lookup_errors_total",
			Help: "Total number of device store lookups that failed and were treated as no match",
		},
		[]string{"step"},
	)

	// ResolutionDuration tracks end to end resolver latency.
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screenwatch_device_resolution_duration_seconds",
			Help:    "Duration of device resolutions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"match_type"},
	)
)

func recordResolution(res *Resolution, started time.Time) {
	ResolutionsTotal.WithLabelValues(string(res.MatchType), string(res.Confidence)).Inc()
	ResolutionDuration.WithLabelValues(string(res.MatchType)).Observe(time.Since(started).Seconds())
}
