package ingester

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Pipeline ingests a single height: resolve hash, fetch, validate linkage, persist.
type Pipeline struct {
	node      Node
	store     Store
	validator ChainValidator
	logger    *zap.Logger
}

func NewPipeline(node Node, store Store, validator ChainValidator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		node:      node,
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// IngestHeight moves height through PENDING, FETCHED, CHAIN-VALIDATED and PERSISTED.
// When the validator truncated the chain the outcome is StateRewound and nothing is
// persisted for height.
func (p *Pipeline) IngestHeight(ctx context.Context, height uint64) (Outcome, error) {
	outcome := Outcome{Height: height, State: StatePending}

	hash, err := p.node.BlockHash(ctx, height)
	if err != nil {
		return p.fail(outcome, fmt.Errorf("resolve block hash: %w", err))
	}
	outcome.Hash = hash

	block, err := p.node.Block(ctx, hash)
	if err != nil {
		return p.fail(outcome, fmt.Errorf("fetch block %s: %w", hash, err))
	}
	if block.Height != height || block.Hash != hash {
		return p.fail(outcome, fmt.Errorf("node returned block %s at height %d for %s at height %d",
			block.Hash, block.Height, hash, height))
	}
	outcome.State = StateFetched

	decision, err := p.validator.Check(ctx, block)
	if err != nil {
		return p.fail(outcome, err)
	}
	outcome.Reorg = decision.Reorg
	if !decision.Persist {
		outcome.State = StateRewound
		outcome.ResumeFrom = decision.ResumeFrom
		return outcome, nil
	}
	outcome.State = StateChainValidated

	if err := p.store.SaveBlock(ctx, block); err != nil {
		return p.fail(outcome, &PersistenceError{Op: "save_block", Height: height, Err: err})
	}
	outcome.State = StatePersisted

	p.logger.Debug("block persisted",
		zap.Uint64("height", height),
		zap.String("hash", hash),
		zap.Int("transactions", len(block.Transactions)),
	)
	return outcome, nil
}

func (p *Pipeline) fail(outcome Outcome, err error) (Outcome, error) {
	failedIn := outcome.State
	outcome.State = StateFailed
	return outcome, &IngestError{Height: outcome.Height, State: failedIn, Err: err}
}

var (
	_ HeightIngester = (*Pipeline)(nil)
	_ ChainValidator = (*ReorgDetector)(nil)
)
