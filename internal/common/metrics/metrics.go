// internal/common/metrics/metrics.go
package metrics

import (
	"booking-workers/internal/compatibility"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CompatibilityEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_evaluations_total",
			Help: "Rider/venue evaluations by resulting match status",
		},
		[]string{"status"},
	)

	CompatibilityDealBreakers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_deal_breakers_total",
			Help: "Failed factor checks by factor",
		},
		[]string{"factor"},
	)

	CompatibilityOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compatibility_overall_score",
			Help:    "Distribution of overall compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_cache_lookups_total",
			Help: "Profile cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// RecordEvaluation updates the compatibility metrics for one result.
func RecordEvaluation(result compatibility.Result) {
	CompatibilityEvaluations.WithLabelValues(string(result.Status)).Inc()
	CompatibilityOverallScore.Observe(float64(result.OverallScore))
	for _, check := range result.Checks {
		if check.Status == compatibility.StatusFail {
			CompatibilityDealBreakers.WithLabelValues(string(check.Factor)).Inc()
		}
	}
}
