package debugapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-enemy or per-run labels, to
// keep the series count flat regardless of how long a run goes).
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Time spent in one fixed sim.World.tick()",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.02},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "debugapi_render_duration_seconds",
		Help:    "Time spent rendering a debug PNG frame",
		Buckets: []float64{0.005, 0.01, 0.02, 0.033, 0.05, 0.1},
	})

	enemyCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_enemy_count",
		Help: "Currently alive enemies in the active run",
	})

	currentPhase = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_current_phase",
		Help: "Current Phase enum value of the active run",
	})

	tickCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Total fixed ticks advanced since process start",
	})

	// DoS detection metrics - bounded label values only.
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debugapi_connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // "rate_limit", "origin", "ws_limit"

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "debugapi_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is a path pattern, not the raw URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "debugapi_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "debugapi_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debugapi_websocket_messages_total",
		Help: "Total WebSocket state frames broadcast",
	})
)

// RecordTick records one fixed tick's wall-clock duration and updates
// the gauges a fresh state View carries.
func RecordTick(duration time.Duration, enemies, phase int32) {
	tickDuration.Observe(duration.Seconds())
	tickCount.Inc()
	enemyCount.Set(float64(enemies))
	currentPhase.Set(float64(phase))
}

// RecordRender records PNG render timing.
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_limit".
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics.
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates the active WebSocket connection gauge.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments the broadcast message counter.
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
