package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esiksha_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "esiksha_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	ContentSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esiksha_content_submissions_total",
			Help: "Submitted courses and notes by initial status",
		},
		[]string{"kind", "status"},
	)

	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esiksha_moderation_decisions_total",
			Help: "Admin approve/reject decisions",
		},
		[]string{"kind", "action"},
	)

	Enrollments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esiksha_enrollments_total",
			Help: "New course enrollments",
		},
	)

	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esiksha_reviews_total",
			Help: "Reviews accepted by target kind",
		},
		[]string{"kind"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esiksha_upload_bytes_total",
			Help: "Bytes written to the upload store",
		},
	)
)

func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordSubmission(kind, status string) {
	ContentSubmissions.WithLabelValues(kind, status).Inc()
}

func RecordModeration(kind, action string) {
	ModerationDecisions.WithLabelValues(kind, action).Inc()
}

func RecordReview(kind string) {
	ReviewsSubmitted.WithLabelValues(kind).Inc()
}
