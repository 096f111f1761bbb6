package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "climatejobs"

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	JobTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_transitions_total",
			Help:      "Job status transitions applied",
		},
		[]string{"from", "to"},
	)

	TransitionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_transition_conflicts_total",
			Help:      "Conditional status writes that matched no row",
		},
		[]string{"operation"},
	)

	BlobCompensationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_compensation_failures_total",
			Help:      "Compensating blob deletes that failed and may have left orphaned objects",
		},
	)

	EventDeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_delivery_failures_total",
			Help:      "Lifecycle events a sink failed to handle",
		},
		[]string{"sink"},
	)
)

// RecordTransition counts a successful status change.
func RecordTransition(from, to string) {
	JobTransitions.WithLabelValues(from, to).Inc()
}

// RecordConflict counts a conditional write that lost to a concurrent change.
func RecordConflict(operation string) {
	TransitionConflicts.WithLabelValues(operation).Inc()
}
