package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/clock"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/source"
	"go.uber.org/zap"
)

// SyncRequest bounds one sync round. A nil StartHeight resumes from the checkpoint;
// a zero MaxBlocks runs up to the node tip.
type SyncRequest struct {
	StartHeight *uint64
	MaxBlocks   uint64
}

// SyncResult summarizes one sync round.
type SyncResult struct {
	From       uint64
	To         uint64
	Tip        uint64
	Persisted  uint64
	Rewinds    int
	Skipped    []uint64
	Checkpoint uint64
	// HasCheckpoint is false while the store is empty.
	HasCheckpoint bool
}

// CaughtUp reports whether the round covered heights up to the node tip.
func (r SyncResult) CaughtUp() bool {
	return r.To >= r.Tip
}

// SyncConfig holds the tunables of a SyncService.
type SyncConfig struct {
	StartHeight  uint64
	Policy       FailurePolicy
	PollInterval time.Duration
	RoundSize    uint64
}

// SyncService drives the pipeline across height ranges, resuming from the store checkpoint.
type SyncService struct {
	logger       *zap.Logger
	ingester     HeightIngester
	node         Node
	store        Store
	metrics      SyncMetrics
	publisher    EventPublisher
	startHeight  uint64
	policy       FailurePolicy
	pollInterval time.Duration
	roundSize    uint64
	blockSignal  <-chan struct{}
	wait         func(ctx context.Context, d time.Duration, signal <-chan struct{}) error
}

// NewSyncService wires a sync loop. publisher and blockSignal are optional.
func NewSyncService(
	ingester HeightIngester,
	node Node,
	store Store,
	metrics SyncMetrics,
	publisher EventPublisher,
	cfg SyncConfig,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*SyncService, error) {
	if metrics == nil {
		return nil, errors.New("sync metrics is required")
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyAbort
	}
	if cfg.Policy != PolicyAbort && cfg.Policy != PolicySkip {
		return nil, fmt.Errorf("unknown failure policy %q", cfg.Policy)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RoundSize == 0 {
		cfg.RoundSize = defaultRoundSize
	}
	return &SyncService{
		logger:       logger.With(zap.String("policy", string(cfg.Policy))),
		ingester:     ingester,
		node:         node,
		store:        store,
		metrics:      metrics,
		publisher:    publisher,
		startHeight:  cfg.StartHeight,
		policy:       cfg.Policy,
		pollInterval: cfg.PollInterval,
		roundSize:    cfg.RoundSize,
		blockSignal:  blockSignal,
		wait:         clock.WaitWithSignal,
	}, nil
}

// Sync ingests heights sequentially from the checkpoint (or req.StartHeight) up to the
// node tip, bounded by req.MaxBlocks. Under PolicyAbort the first failing height ends
// the round with its IngestError; under PolicySkip it is recorded and passed over.
// Unresolved reorgs and cancellation always end the round.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (result SyncResult, err error) {
	defer func() {
		s.metrics.ObserveRound(err, result.Persisted)
	}()

	tip, err := s.node.TipHeight(ctx)
	if err != nil {
		return result, fmt.Errorf("query node tip: %w", err)
	}
	result.Tip = tip

	checkpoint, ok, err := s.store.MaxBlockHeight(ctx)
	if err != nil {
		return result, &PersistenceError{Op: "max_block_height", Err: err}
	}
	result.Checkpoint, result.HasCheckpoint = checkpoint, ok

	start := s.startHeight
	switch {
	case req.StartHeight != nil:
		start = *req.StartHeight
	case ok:
		start = checkpoint + 1
	}
	result.From = start

	defer func() {
		s.metrics.SetHeights(result.Checkpoint, result.Tip)
	}()

	if start > tip {
		result.To = tip
		s.logger.Debug("mirror is up to date", zap.Uint64("tip", tip), zap.Uint64("checkpoint", checkpoint))
		return result, nil
	}

	end := tip
	if req.MaxBlocks > 0 && req.MaxBlocks-1 < tip-start {
		end = start + req.MaxBlocks - 1
	}
	result.To = end

	s.logger.Info("sync started",
		zap.Uint64("from", start),
		zap.Uint64("to", end),
		zap.Uint64("tip", tip),
	)

	for h := start; h <= end; {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		started := time.Now()
		outcome, ingestErr := s.ingester.IngestHeight(ctx, h)
		if outcome.Reorg != nil {
			s.reportReorg(ctx, *outcome.Reorg)
		}
		if ingestErr != nil {
			s.metrics.ObserveHeight(string(StateFailed), started)
			if !s.skippable(ctx, ingestErr) {
				err = ingestErr
				s.logger.Error("sync aborted", zap.Uint64("height", h), zap.Error(err))
				return result, err
			}
			s.logger.Warn("height skipped", zap.Uint64("height", h), zap.Error(ingestErr))
			result.Skipped = append(result.Skipped, h)
			h++
			continue
		}
		s.metrics.ObserveHeight(string(outcome.State), started)

		if outcome.State == StateRewound {
			result.Rewinds++
			result.Checkpoint, result.HasCheckpoint = 0, false
			if outcome.ResumeFrom > 0 {
				result.Checkpoint, result.HasCheckpoint = outcome.ResumeFrom-1, true
			}
			h = outcome.ResumeFrom
			continue
		}

		result.Persisted++
		result.Checkpoint, result.HasCheckpoint = h, true
		if result.Persisted%progressLogInterval == 0 {
			s.logger.Info("sync progress",
				zap.Uint64("height", h),
				zap.Uint64("to", end),
				zap.Uint64("persisted", result.Persisted),
			)
		}
		h++
	}

	s.logger.Info("sync finished",
		zap.Uint64("checkpoint", result.Checkpoint),
		zap.Uint64("persisted", result.Persisted),
		zap.Int("rewinds", result.Rewinds),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// Run follows the node tip until ctx is cancelled. Rounds that failed on a transient
// node error are retried from the checkpoint after a pause; any other failure, such as
// a persistence error or an unresolved reorg, stops the loop.
func (s *SyncService) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.Sync(ctx, SyncRequest{MaxBlocks: s.roundSize})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !source.Retryable(err) {
				return err
			}
			s.logger.Warn("sync round failed, backing off", zap.Error(err), zap.Duration("sleep", retrySleepDuration))
			if waitErr := s.wait(ctx, retrySleepDuration, nil); waitErr != nil {
				return waitErr
			}
			continue
		}

		if !result.CaughtUp() {
			continue
		}
		if err := s.wait(ctx, s.pollInterval, s.blockSignal); err != nil {
			return err
		}
	}
}

func (s *SyncService) skippable(ctx context.Context, err error) bool {
	if s.policy != PolicySkip || ctx.Err() != nil {
		return false
	}
	var unresolved *ReorgUnresolvedError
	return !errors.As(err, &unresolved)
}

func (s *SyncService) reportReorg(ctx context.Context, event model.ReorgEvent) {
	s.metrics.ObserveReorg(event.RemovedBlocks)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReorg(ctx, event); err != nil {
		s.logger.Warn("publish reorg event failed", zap.Uint64("detected_at", event.DetectedAt), zap.Error(err))
	}
}
