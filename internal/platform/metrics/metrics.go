package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersCreated       prometheus.Counter
	DocumentsSubmitted prometheus.Counter

	// Verification metrics
	VerificationsCompleted *prometheus.CounterVec
	VerificationDuration   prometheus.Histogram
	VerificationsInFlight  prometheus.Gauge

	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycgate_users_created_total",
			Help: "Total number of users registered",
		}),
		DocumentsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycgate_documents_submitted_total",
			Help: "Total number of documents submitted for verification",
		}),
		VerificationsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycgate_verifications_completed_total",
			Help: "Total number of completed verifications, labeled by outcome",
		}, []string{"outcome"}),
		VerificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycgate_verification_duration_seconds",
			Help:    "Time from document submission to committed verification outcome",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		VerificationsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kycgate_verifications_in_flight",
			Help: "Current number of documents awaiting a verification outcome",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kycgate_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementDocumentsSubmitted increments the documents submitted counter by 1
func (m *Metrics) IncrementDocumentsSubmitted() {
	if m == nil {
		return
	}
	m.DocumentsSubmitted.Inc()
	m.VerificationsInFlight.Inc()
}

// ObserveVerification records a completed verification with its outcome and duration.
func (m *Metrics) ObserveVerification(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.VerificationsCompleted.WithLabelValues(outcome).Inc()
	m.VerificationDuration.Observe(seconds)
	m.VerificationsInFlight.Dec()
}

// ObserveEndpointLatency records request latency for an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}
