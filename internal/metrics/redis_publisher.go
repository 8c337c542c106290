package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	redisPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "redis_publisher",
		Name:      "publish_total",
		Help:      "Count of published mirror events.",
	}, []string{"event", "network", "status"})
	redisPublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "redis_publisher",
		Name:      "publish_duration_seconds",
		Help:      "Duration of publishing a mirror event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event", "network", "status"})
)

// RedisPublisher tracks metrics for event publishing.
type RedisPublisher struct {
	network string
}

// NewRedisPublisher creates a RedisPublisher metrics collector.
func NewRedisPublisher(network model.Network) *RedisPublisher {
	return &RedisPublisher{network: networkLabel(network)}
}

// Observe records one publish attempt.
func (m RedisPublisher) Observe(event string, err error, started time.Time) {
	status := statusLabel(err)
	redisPublishTotal.WithLabelValues(event, m.network, status).Inc()
	redisPublishDuration.WithLabelValues(event, m.network, status).Observe(time.Since(started).Seconds())
}
