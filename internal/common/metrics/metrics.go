// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResumesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_processing_total",
			Help: "Total number of resume processing runs by terminal status",
		},
		[]string{"status"},
	)

	ResumeStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "resume_step_duration_seconds",
			Help: "Duration of each resume processing step in seconds",
		},
		[]string{"step"},
	)

	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resume_workers_active",
			Help: "Number of in-flight resume processing workers",
		},
	)

	RankingsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankings_computed_total",
			Help: "Total number of candidate ranking passes by outcome",
		},
		[]string{"outcome"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ranking_duration_seconds",
			Help: "Duration of one full ranking pass in seconds",
		},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ranking_candidates_scored",
			Help: "Number of candidates scored per ranking pass",
			// Pool sizes are small; buckets follow the default limit of 50.
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	ProgressEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_events_dropped_total",
			Help: "Progress notifications dropped because a subscriber was slow or absent",
		},
	)
)
