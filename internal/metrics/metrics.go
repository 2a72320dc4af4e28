package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	DatabaseUp          prometheus.Gauge
	HealthCheckDuration prometheus.Histogram
	HealthChecksTotal   *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	AuthFailuresTotal   *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DatabaseUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "database_up",
			Help: "1 if the last liveness query succeeded, 0 otherwise.",
		}),

		HealthCheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "health_check_duration_seconds",
			Help:    "Latency of the database liveness query.",
			Buckets: prometheus.DefBuckets,
		}),

		HealthChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "health_checks_total",
			Help: "Total number of database liveness checks by result.",
		}, []string{"result"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method and status code.",
		}, []string{"method", "code"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected requests on authenticated routes by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.DatabaseUp,
		m.HealthCheckDuration,
		m.HealthChecksTotal,
		m.HTTPRequestsTotal,
		m.AuthFailuresTotal,
	)

	return m
}

// ObserveHealthCheck records one liveness probe. Its signature matches
// health.ObserveFunc so the health package stays prometheus-free.
func (m *Metrics) ObserveHealthCheck(up bool, latency time.Duration) {
	m.HealthCheckDuration.Observe(latency.Seconds())
	if up {
		m.DatabaseUp.Set(1)
		m.HealthChecksTotal.WithLabelValues("ok").Inc()
		return
	}
	m.DatabaseUp.Set(0)
	m.HealthChecksTotal.WithLabelValues("error").Inc()
}

// ObserveRequest counts one completed HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveAuthFailure counts one rejected request on an authenticated route.
func (m *Metrics) ObserveAuthFailure(reason string) {
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}
