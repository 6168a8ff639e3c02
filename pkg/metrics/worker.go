package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics records metadata for background event workers.
type WorkerMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewWorkerMetrics registers the worker metrics on the provided registerer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		return &WorkerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_event_duration_seconds",
		Help:    "Duration of worker event handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker", "event"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_event_success",
		Help: "Successfully handled worker events.",
	}, []string{"worker", "event"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_event_failure",
		Help: "Failed worker events.",
	}, []string{"worker", "event"})
	reg.MustRegister(duration, success, failure)
	return &WorkerMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the handling duration for the named worker and event type.
func (w *WorkerMetrics) ObserveDuration(worker, event string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(worker), normalizeLabel(event)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named worker and event type.
func (w *WorkerMetrics) IncSuccess(worker, event string) {
	if w == nil || w.success == nil {
		return
	}
	w.success.WithLabelValues(normalizeLabel(worker), normalizeLabel(event)).Inc()
}

// IncFailure increments the failure counter for the named worker and event type.
func (w *WorkerMetrics) IncFailure(worker, event string) {
	if w == nil || w.failure == nil {
		return
	}
	w.failure.WithLabelValues(normalizeLabel(worker), normalizeLabel(event)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
