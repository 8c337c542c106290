package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postgresRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "postgres_repository",
		Name:      "operations_total",
		Help:      "Count of mirror store operations.",
	}, []string{"operation", "network", "status"})
	postgresRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "postgres_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of mirror store operations.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "network", "status"})
)

// PostgresRepository tracks metrics for mirror store operations.
type PostgresRepository struct {
	network string
}

// NewPostgresRepository creates a PostgresRepository metrics collector.
func NewPostgresRepository(network model.Network) *PostgresRepository {
	return &PostgresRepository{network: networkLabel(network)}
}

// Observe records duration and status of a repository operation.
func (m PostgresRepository) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)
	postgresRepositoryRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	postgresRepositoryRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
