// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrSnakeDoc/siteboard/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteboard_http_requests_total",
			Help: "HTTP requests handled, by method, route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "siteboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	lifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteboard_lifecycle_operations_total",
			Help: "Coordinator operations by name and outcome (ok, invalid, not_found, error).",
		},
		[]string{"operation", "outcome"},
	)

	indexRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteboard_index_repairs_total",
			Help: "Index entries repaired by the reconciliation sweep, by kind.",
		},
		[]string{"kind"},
	)
)

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveOperation records the outcome of a coordinator operation.
func ObserveOperation(operation string, err error) {
	lifecycleOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveRepairs records n index repairs of one kind.
func ObserveRepairs(kind string, n int) {
	indexRepairs.WithLabelValues(kind).Add(float64(n))
}

// Outcome classifies an operation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrAlreadyReviewed):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
