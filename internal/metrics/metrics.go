// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StudentOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_operations_total",
			Help: "Student store operations by kind and result",
		},
		[]string{"op", "result"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_validation_failures_total",
			Help: "Rejected student submissions by offending field",
		},
		[]string{"field"},
	)

	AttachmentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attachment_upload_bytes",
			Help:    "Size of accepted attachment uploads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument wraps a handler and records its duration under route.
// route is the registered pattern, not the raw path, to keep label
// cardinality bounded.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		APIRequestDuration.WithLabelValues(
			route,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
