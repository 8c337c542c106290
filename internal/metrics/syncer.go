package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncHeightsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "heights_total",
		Help:      "Count of heights ingested by final state.",
	}, []string{"network", "state"})

	syncHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "height_duration_seconds",
		Help:      "Duration of ingesting a single height.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "state"})

	syncRoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "rounds_total",
		Help:      "Count of sync rounds.",
	}, []string{"network", "status"})

	syncRoundSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "round_size",
		Help:      "Number of heights persisted per sync round.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"network"})

	syncReorgsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "reorgs_total",
		Help:      "Count of chain truncations caused by reorganizations.",
	}, []string{"network"})

	syncReorgRemovedBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "reorg_removed_blocks_total",
		Help:      "Count of blocks removed by reorganizations.",
	}, []string{"network"})

	syncCheckpointHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "checkpoint_height",
		Help:      "Highest height stored in the mirror.",
	}, []string{"network"})

	syncTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "tip_height",
		Help:      "Best-chain height reported by the node.",
	}, []string{"network"})
)

// Syncer tracks metrics for the sync loop.
type Syncer struct {
	network string
}

// NewSyncer constructs a Syncer metrics collector.
func NewSyncer(network model.Network) *Syncer {
	return &Syncer{network: networkLabel(network)}
}

// ObserveHeight records the final state of one ingested height.
func (m Syncer) ObserveHeight(state string, started time.Time) {
	syncHeightsTotal.WithLabelValues(m.network, state).Inc()
	syncHeightDuration.WithLabelValues(m.network, state).Observe(time.Since(started).Seconds())
}

// ObserveRound records the outcome of one sync round.
func (m Syncer) ObserveRound(err error, persisted uint64) {
	syncRoundsTotal.WithLabelValues(m.network, statusLabel(err)).Inc()
	syncRoundSize.WithLabelValues(m.network).Observe(float64(persisted))
}

// ObserveReorg records a truncation of removed blocks.
func (m Syncer) ObserveReorg(removed int64) {
	syncReorgsTotal.WithLabelValues(m.network).Inc()
	syncReorgRemovedBlocks.WithLabelValues(m.network).Add(float64(removed))
}

// SetHeights publishes the current checkpoint and node tip.
func (m Syncer) SetHeights(checkpoint, tip uint64) {
	syncCheckpointHeight.WithLabelValues(m.network).Set(float64(checkpoint))
	syncTipHeight.WithLabelValues(m.network).Set(float64(tip))
}
