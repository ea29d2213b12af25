// internal/common/metrics/metrics.go
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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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

	AdminQueryIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_query_intents_total",
			Help: "Admin queries answered, by classified intent",
		},
		[]string{"intent"},
	)

	AdminQueryConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admin_query_confidence",
			Help:    "Classifier confidence of answered admin queries",
			Buckets: []float64{0, 50, 75, 90, 95, 100},
		},
	)

	StatsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_lookups_total",
			Help: "Stats snapshot cache lookups, by result",
		},
		[]string{"result"},
	)

	AdminActionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_actions_applied_total",
			Help: "Confirmed admin actions applied to the store",
		},
		[]string{"operation"},
	)
)

// JobTracker records the lifecycle of one job in the worker metrics.
type JobTracker struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active. Call Done or Failed exactly once.
func StartJob(taskType string) *JobTracker {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTracker{taskType: taskType, start: time.Now()}
}

func (t *JobTracker) Done() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}

func (t *JobTracker) Failed(errorCode string) {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}
