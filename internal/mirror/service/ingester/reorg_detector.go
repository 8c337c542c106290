package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"go.uber.org/zap"
)

// ReorgDetector checks a fetched block against the stored chain before it is persisted
// and truncates the store back to the fork point when the chains diverged.
type ReorgDetector struct {
	node        Node
	store       Store
	startHeight uint64
	maxDepth    uint64
	logger      *zap.Logger
	now         func() time.Time
}

// NewReorgDetector builds a detector for a mirror rooted at startHeight. A maxDepth of
// zero bounds the fork search only by the start height.
func NewReorgDetector(node Node, store Store, startHeight, maxDepth uint64, logger *zap.Logger) *ReorgDetector {
	return &ReorgDetector{
		node:        node,
		store:       store,
		startHeight: startHeight,
		maxDepth:    maxDepth,
		logger:      logger,
		now:         time.Now,
	}
}

// Check decides whether block may be persisted.
func (d *ReorgDetector) Check(ctx context.Context, block model.Block) (Decision, error) {
	h := block.Height
	if h <= d.startHeight {
		return d.accept(ctx, block)
	}

	stored, ok, err := d.store.BlockHashAtHeight(ctx, h-1)
	if err != nil {
		return Decision{}, &PersistenceError{Op: "block_hash_at_height", Height: h - 1, Err: err}
	}
	if !ok {
		d.logger.Warn("no stored predecessor, chain link not verified",
			zap.Uint64("height", h),
			zap.String("previous_block_hash", block.PreviousBlockHash),
		)
		return d.accept(ctx, block)
	}
	if stored == block.PreviousBlockHash {
		return d.accept(ctx, block)
	}

	d.logger.Warn("chain divergence detected",
		zap.Uint64("height", h),
		zap.String("stored_previous_hash", stored),
		zap.String("remote_previous_hash", block.PreviousBlockHash),
	)
	return d.rewind(ctx, block, stored)
}

// accept lets block through and drops a different block already stored at its height,
// together with everything above it.
func (d *ReorgDetector) accept(ctx context.Context, block model.Block) (Decision, error) {
	stored, ok, err := d.store.BlockHashAtHeight(ctx, block.Height)
	if err != nil {
		return Decision{}, &PersistenceError{Op: "block_hash_at_height", Height: block.Height, Err: err}
	}
	if !ok || stored == block.Hash {
		return Decision{Persist: true}, nil
	}

	removed, err := d.store.DeleteBlocksFrom(ctx, block.Height)
	if err != nil {
		return Decision{}, &PersistenceError{Op: "delete_blocks_from", Height: block.Height, Err: err}
	}
	event := &model.ReorgEvent{
		DetectedAt:    block.Height,
		ForkHeight:    block.Height - 1,
		ResumeFrom:    block.Height,
		RemovedBlocks: removed,
		StoredHash:    stored,
		RemoteHash:    block.Hash,
		Time:          d.now().UTC(),
	}
	if block.Height == 0 {
		event.ForkHeight = 0
	}
	d.logger.Info("replaced stored block",
		zap.Uint64("height", block.Height),
		zap.String("stored_hash", stored),
		zap.String("remote_hash", block.Hash),
		zap.Int64("removed_blocks", removed),
	)
	return Decision{Persist: true, Reorg: event}, nil
}

// rewind walks down from block.Height-1 comparing stored and remote hashes until they
// agree, then deletes every stored block above that fork point.
func (d *ReorgDetector) rewind(ctx context.Context, block model.Block, storedPrev string) (Decision, error) {
	h := block.Height
	var searched uint64
	for k := h - 1; ; k-- {
		if d.maxDepth > 0 && searched >= d.maxDepth {
			return Decision{}, &ReorgUnresolvedError{
				Height:      h,
				StartHeight: d.startHeight,
				Searched:    searched,
				Reason:      "maximum reorg depth exceeded",
			}
		}
		searched++

		local, ok, err := d.store.BlockHashAtHeight(ctx, k)
		if err != nil {
			return Decision{}, &PersistenceError{Op: "block_hash_at_height", Height: k, Err: err}
		}
		if ok {
			remote, err := d.node.BlockHash(ctx, k)
			if err != nil {
				return Decision{}, err
			}
			if remote == local {
				return d.truncate(ctx, block, k, storedPrev)
			}
		}

		if k <= d.startHeight {
			return Decision{}, &ReorgUnresolvedError{
				Height:      h,
				StartHeight: d.startHeight,
				Searched:    searched,
				Reason:      "no common ancestor down to the start height",
			}
		}
	}
}

func (d *ReorgDetector) truncate(ctx context.Context, block model.Block, fork uint64, storedPrev string) (Decision, error) {
	removed, err := d.store.DeleteBlocksFrom(ctx, fork+1)
	if err != nil {
		return Decision{}, &PersistenceError{Op: "delete_blocks_from", Height: fork + 1, Err: err}
	}

	event := &model.ReorgEvent{
		DetectedAt:    block.Height,
		ForkHeight:    fork,
		ResumeFrom:    fork + 1,
		RemovedBlocks: removed,
		StoredHash:    storedPrev,
		RemoteHash:    block.PreviousBlockHash,
		Time:          d.now().UTC(),
	}
	d.logger.Warn("chain truncated to fork point",
		zap.Uint64("detected_at", block.Height),
		zap.Uint64("fork_height", fork),
		zap.Uint64("resume_from", fork+1),
		zap.Int64("removed_blocks", removed),
	)
	return Decision{Persist: false, ResumeFrom: fork + 1, Reorg: event}, nil
}
