package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auditor",
		Name:      "runs_total",
		Help:      "Count of consistency audits.",
	}, []string{"network", "status"})

	auditRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "auditor",
		Name:      "run_duration_seconds",
		Help:      "Duration of a consistency audit.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"network", "status"})

	auditConsistency = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "auditor",
		Name:      "consistency_percentage",
		Help:      "Consistency percentage of the latest audit.",
	}, []string{"network"})

	auditCheckedBlocks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "auditor",
		Name:      "checked_blocks",
		Help:      "Heights compared by the latest audit.",
	}, []string{"network"})

	auditDiscrepancies = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "auditor",
		Name:      "discrepancies",
		Help:      "Discrepancies found by the latest audit.",
	}, []string{"network", "type"})
)

// Auditor tracks metrics for consistency audits.
type Auditor struct {
	network string
}

// NewAuditor constructs an Auditor metrics collector.
func NewAuditor(network model.Network) *Auditor {
	return &Auditor{network: networkLabel(network)}
}

// ObserveRun records one audit attempt.
func (m Auditor) ObserveRun(err error, started time.Time) {
	status := statusLabel(err)
	auditRunsTotal.WithLabelValues(m.network, status).Inc()
	auditRunDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveReport publishes the figures of a finished audit. Types absent from
// discrepancies are reset to zero.
func (m Auditor) ObserveReport(percentage float64, checked int, discrepancies map[string]int, types []string) {
	auditConsistency.WithLabelValues(m.network).Set(percentage)
	auditCheckedBlocks.WithLabelValues(m.network).Set(float64(checked))
	for _, kind := range types {
		auditDiscrepancies.WithLabelValues(m.network, kind).Set(float64(discrepancies[kind]))
	}
}
