package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Alert metrics

	AlertsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "alerts_created_total",
		Help:      "Total alerts raised, by alert type.",
	}, []string{"type"})

	AlertEscalationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "alert_escalations_total",
		Help:      "Total alerts escalated to emergency contacts.",
	})

	EscalationSweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "carelink",
		Name:      "escalation_sweep_duration_seconds",
		Help:      "Time taken for one escalation sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	NotificationEmailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "notification_emails_total",
		Help:      "Notification emails attempted, by recipient kind and outcome.",
	}, []string{"recipient", "outcome"})

	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "logins_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	// Connection metrics

	ConnectionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "connection_transitions_total",
		Help:      "Connection state transitions, by transition.",
	}, []string{"transition"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carelink",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carelink",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AlertsCreatedTotal,
		AlertEscalationsTotal,
		EscalationSweepDuration,
		NotificationEmailsTotal,
		LoginsTotal,
		ConnectionTransitionsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
