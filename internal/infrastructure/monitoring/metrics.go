package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the shell.
type Metrics struct {
	registry *prometheus.Registry

	// Bridge HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command surface metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Window and tray metrics
	WindowTransitions *prometheus.CounterVec
	WindowVisible     prometheus.Gauge
	TrayEvents        *prometheus.CounterVec

	// Notification bridge metrics
	Notifications *prometheus.CounterVec

	// Secure store metrics
	StoreOps *prometheus.CounterVec

	// View event channel metrics
	ViewConnections prometheus.Gauge
	ViewFrames      *prometheus.CounterVec

	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a new metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_http_requests_total",
				Help: "Total number of bridge HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskshell_http_request_duration_seconds",
				Help:    "Bridge HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_command_calls_total",
				Help: "Total number of command surface invocations",
			},
			[]string{"command", "code"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskshell_command_duration_seconds",
				Help:    "Command surface invocation duration in seconds",
				Buckets: []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"command"},
		),

		WindowTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_window_transitions_total",
				Help: "Main window lifecycle operations",
			},
			[]string{"action", "status"},
		),
		WindowVisible: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskshell_window_visible",
				Help: "1 when the main window was last observed visible",
			},
		),
		TrayEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_tray_events_total",
				Help: "Tray menu selections and icon clicks",
			},
			[]string{"kind", "id"},
		),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_notifications_total",
				Help: "Notifications forwarded into the embedded view",
			},
			[]string{"status"},
		),

		StoreOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_secure_store_ops_total",
				Help: "Secure store operations",
			},
			[]string{"op", "status"},
		),

		ViewConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskshell_view_connections",
				Help: "Number of connected embedded views",
			},
		),
		ViewFrames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskshell_view_frames_total",
				Help: "Event frames pushed to connected views",
			},
			[]string{"event", "status"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "deskshell_uptime_seconds",
			Help: "Shell uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a bridge HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records one command surface invocation.
func (m *Metrics) RecordCommand(command, code string, duration time.Duration) {
	m.CommandCalls.WithLabelValues(command, code).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordWindow records a window lifecycle operation.
func (m *Metrics) RecordWindow(action string, err error) {
	m.WindowTransitions.WithLabelValues(action, status(err)).Inc()
}

// SetWindowVisible records the last observed visibility.
func (m *Metrics) SetWindowVisible(visible bool) {
	if visible {
		m.WindowVisible.Set(1)
		return
	}
	m.WindowVisible.Set(0)
}

// RecordTrayEvent records a tray interaction.
func (m *Metrics) RecordTrayEvent(kind, id string) {
	m.TrayEvents.WithLabelValues(kind, id).Inc()
}

// RecordNotification records a notification forward attempt.
func (m *Metrics) RecordNotification(err error) {
	m.Notifications.WithLabelValues(status(err)).Inc()
}

// RecordStoreOp records a secure store operation.
func (m *Metrics) RecordStoreOp(op string, err error) {
	m.StoreOps.WithLabelValues(op, status(err)).Inc()
}

// IncViewConnections increments connected views.
func (m *Metrics) IncViewConnections() {
	m.ViewConnections.Inc()
}

// DecViewConnections decrements connected views.
func (m *Metrics) DecViewConnections() {
	m.ViewConnections.Dec()
}

// RecordViewFrame records an event frame pushed to one view.
func (m *Metrics) RecordViewFrame(event string, err error) {
	m.ViewFrames.WithLabelValues(event, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
