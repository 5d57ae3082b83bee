package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textrec_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid_parameter", "insufficient_input", "duplicate_input", "not_found", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textrec_recommend_duration_seconds",
			Help:    "Time spent per recommendation stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "vectorize", "similarity", "rank", "total"
	)

	CorpusRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "textrec_corpus_rows",
			Help: "Rows in the currently held corpus snapshot",
		},
	)

	SpaceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "textrec_space_cache_hits_total",
			Help: "Vector space builds served from the snapshot cache",
		},
	)

	SpaceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "textrec_space_cache_misses_total",
			Help: "Vector space builds computed from scratch",
		},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textrec_api_requests_total",
			Help: "HTTP API requests by route and status",
		},
		[]string{"route", "status"},
	)
)

// ObserveStage records the duration of a recommendation stage.
func ObserveStage(stage string, d time.Duration) {
	RecommendDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordOutcome increments the recommendation counter for outcome.
func RecordOutcome(outcome string) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
}
