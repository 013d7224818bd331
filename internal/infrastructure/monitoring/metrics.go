package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// Launcher metrics
	LaunchesTotal  *prometheus.CounterVec
	LaunchDuration *prometheus.HistogramVec

	// Channel metrics
	InputsTotal  *prometheus.CounterVec
	OutputsTotal *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector registered on a private
// registry so repeated construction in tests never double-registers.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

// NewMetricsWithRegistry creates a collector on the given registerer.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termbridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termbridge_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termbridge_sessions_total",
				Help: "Total number of terminal sessions created",
			},
		),

		LaunchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_launches_total",
				Help: "Terminal window launches by platform and outcome",
			},
			[]string{"platform", "status"},
		),
		LaunchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termbridge_launch_duration_seconds",
				Help:    "Time from launch request until the window is interactable",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
			},
			[]string{"platform"},
		),

		InputsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_inputs_total",
				Help: "send_input calls by outcome",
			},
			[]string{"status"},
		),
		OutputsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termbridge_outputs_total",
				Help: "get_output calls by outcome",
			},
			[]string{"status"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termbridge_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLaunch records a window launch attempt
func (m *Metrics) RecordLaunch(platform, status string, duration time.Duration) {
	m.LaunchesTotal.WithLabelValues(platform, status).Inc()
	if status == "ok" {
		m.LaunchDuration.WithLabelValues(platform).Observe(duration.Seconds())
	}
}

// SessionOpened tracks a newly created session
func (m *Metrics) SessionOpened() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// SessionClosed tracks a torn-down session
func (m *Metrics) SessionClosed() {
	m.SessionsActive.Dec()
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
