package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	votesTotal          *prometheus.CounterVec
	broadcastsTotal     prometheus.Counter
	deliveriesTotal     *prometheus.CounterVec
	activeConnections   prometheus.Gauge
	aggregationDuration prometheus.Histogram
	registerOnce        sync.Once
)

// Register initializes Prometheus metrics on the default registry.
// Until it is called every helper in this package is a no-op.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the polling API.",
		}, []string{"method", "path", "status"})
		votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "votes_total",
			Help:      "Vote commit attempts by outcome.",
		}, []string{"result"})
		broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "broadcasts_total",
			Help:      "Results snapshots published to subscribers.",
		})
		deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "deliveries_total",
			Help:      "Per-connection snapshot deliveries by outcome.",
		}, []string{"result"})
		activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "polling",
			Name:      "active_connections",
			Help:      "Websocket connections currently registered.",
		})
		aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "polling",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent computing a results snapshot.",
			Buckets:   prometheus.DefBuckets,
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncVote(result string) {
	if votesTotal == nil {
		return
	}
	votesTotal.WithLabelValues(result).Inc()
}

func IncBroadcast() {
	if broadcastsTotal == nil {
		return
	}
	broadcastsTotal.Inc()
}

func IncDelivery(result string) {
	if deliveriesTotal == nil {
		return
	}
	deliveriesTotal.WithLabelValues(result).Inc()
}

func SetActiveConnections(n int) {
	if activeConnections == nil {
		return
	}
	activeConnections.Set(float64(n))
}

func ObserveAggregation(d time.Duration) {
	if aggregationDuration == nil {
		return
	}
	aggregationDuration.Observe(d.Seconds())
}
