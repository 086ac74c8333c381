package collector

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/promptlift/internal/models"
)

// Task outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
)

// Recorder observes collection activity.
type Recorder interface {
	ObserveTask(taskType string, method models.Method, status string, duration time.Duration)
	ObserveRetry(taskType string, method models.Method)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTask(string, models.Method, string, time.Duration) {}
func (nopRecorder) ObserveRetry(string, models.Method)                       {}

// PrometheusRecorder reports collection metrics using Prometheus primitives.
type PrometheusRecorder struct {
	tasks     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	retries   *prometheus.CounterVec
}

func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptlift_collected_tasks_total",
			Help: "Total number of collected tasks by type, method and status",
		}, []string{"task_type", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promptlift_collect_duration_seconds",
			Help:    "Wall-clock time spent collecting one task",
			Buckets: prometheus.DefBuckets,
		}, []string{"task_type", "method"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptlift_collect_retries_total",
			Help: "Total retry attempts by task type and method",
		}, []string{"task_type", "method"}),
	}

	for _, c := range []prometheus.Collector{r.tasks, r.durations, r.retries} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) ObserveTask(taskType string, method models.Method, status string, duration time.Duration) {
	r.tasks.WithLabelValues(taskType, string(method), status).Inc()
	r.durations.WithLabelValues(taskType, string(method)).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveRetry(taskType string, method models.Method) {
	r.retries.WithLabelValues(taskType, string(method)).Inc()
}
