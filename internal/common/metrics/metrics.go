package metrics

import (
	"time"

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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
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

	TemplateRegistrySize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "template_registry_size",
			Help: "Number of templates in the registry by origin",
		},
		[]string{"origin"},
	)

	TemplateRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_recommendations_total",
			Help: "Recommendation requests by source of the profile and cache outcome",
		},
		[]string{"source", "cached"},
	)

	TemplateRecommendationTopScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "template_recommendation_top_score",
			Help:    "Score of the best ranked template per recommendation",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode counts as success.
func ObserveJob(taskType string, start time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
