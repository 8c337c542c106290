package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseArchiveRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "clickhouse_archive",
		Name:      "operations_total",
		Help:      "Count of audit archive operations.",
	}, []string{"operation", "network", "status"})
	clickhouseArchiveRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "clickhouse_archive",
		Name:      "operation_duration_seconds",
		Help:      "Duration of audit archive operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "network", "status"})
)

// ClickhouseArchive tracks metrics for the audit archive.
type ClickhouseArchive struct {
	network string
}

// NewClickhouseArchive creates a ClickhouseArchive metrics collector.
func NewClickhouseArchive(network model.Network) *ClickhouseArchive {
	return &ClickhouseArchive{network: networkLabel(network)}
}

// Observe records duration and status of an archive operation.
func (m ClickhouseArchive) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	clickhouseArchiveRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	clickhouseArchiveRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
