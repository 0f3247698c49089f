package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submission metrics, labelled by delivery outcome (sent, test_mode, failed, malformed).
	SubmissionsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formrelay_submissions_total",
		Help: "Total number of contact form submissions grouped by outcome",
	}, []string{"outcome"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formrelay_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"transport"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formrelay_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"transport"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formrelay_mail_send_duration_seconds",
		Help:    "Time spent delivering a notification through the active transport",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport"})

	// Static asset metrics, labelled by HTTP status code
	StaticRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formrelay_static_requests_total",
		Help: "Total number of static asset requests grouped by response status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(SubmissionsReceived)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSendDuration)
	prometheus.MustRegister(StaticRequests)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
