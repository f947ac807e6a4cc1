package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civic_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "civic_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	reportsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civic_reports_created_total",
		Help: "Reports submitted by citizens, by category",
	}, []string{"category"})

	statusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civic_report_status_updates_total",
		Help: "Report status changes, by new status and the role that made them",
	}, []string{"status", "role"})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civic_auth_failures_total",
		Help: "Rejected authentication and authorization attempts",
	}, []string{"reason"})

	classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civic_image_classifications_total",
		Help: "Image classification results, by suggested category",
	}, []string{"category"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ReportCreated(category string) {
	reportsCreated.WithLabelValues(category).Inc()
}

func StatusUpdated(status, role string) {
	statusUpdates.WithLabelValues(status, role).Inc()
}

func AuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

func Classified(category string) {
	classifications.WithLabelValues(category).Inc()
}
