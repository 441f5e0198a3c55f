// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoresSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scores_submitted_total",
			Help: "Total number of judge scores written",
		},
		[]string{"kind", "round", "action"},
	)

	ScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "score_total",
			Help:    "Distribution of total scores given by judges",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"kind", "round"},
	)

	SubmissionFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_files_total",
			Help: "Uploaded submission files by outcome",
		},
		[]string{"kind", "result"},
	)

	RankingCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_cache_requests_total",
			Help: "Rankings cache lookups by result",
		},
		[]string{"result"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
