package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal    *prometheus.CounterVec
	wsConnections        prometheus.Gauge
	wsEvictionsTotal     *prometheus.CounterVec
	broadcastEventsTotal *prometheus.CounterVec
	broadcastDropped     prometheus.Counter
	mutationsTotal       *prometheus.CounterVec
	counterDriftTotal    *prometheus.CounterVec
	registerOnce         sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the polling API.",
		}, []string{"method", "path", "status"})

		wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "polling",
			Name:      "ws_connections",
			Help:      "Live-update connections currently registered.",
		})

		wsEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "ws_evictions_total",
			Help:      "Connections evicted after a failed or stalled delivery.",
		}, []string{"reason"})

		broadcastEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "broadcast_events_total",
			Help:      "Events fanned out to live connections.",
		}, []string{"type"})

		broadcastDropped = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "broadcast_dropped_total",
			Help:      "Events dropped because the dispatcher queue was full or closed.",
		})

		mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "mutations_total",
			Help:      "Vote and like mutations by outcome.",
		}, []string{"kind", "result"})

		counterDriftTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "counter_drift_total",
			Help:      "Denormalized counters corrected by reconciliation.",
		}, []string{"counter"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func SetConnections(n int) {
	if wsConnections == nil {
		return
	}
	wsConnections.Set(float64(n))
}

func IncEviction(reason string) {
	if wsEvictionsTotal == nil {
		return
	}
	wsEvictionsTotal.WithLabelValues(reason).Inc()
}

func IncBroadcast(eventType string) {
	if broadcastEventsTotal == nil {
		return
	}
	broadcastEventsTotal.WithLabelValues(eventType).Inc()
}

func IncBroadcastDropped() {
	if broadcastDropped == nil {
		return
	}
	broadcastDropped.Inc()
}

// IncMutation records a vote/like mutation; result is "ok" or an error code.
func IncMutation(kind, result string) {
	if mutationsTotal == nil {
		return
	}
	mutationsTotal.WithLabelValues(kind, result).Inc()
}

func AddDrift(counter string, n int) {
	if counterDriftTotal == nil || n <= 0 {
		return
	}
	counterDriftTotal.WithLabelValues(counter).Add(float64(n))
}
