package ingester

import "github.com/goodnatureofminers/blockmirror/internal/mirror/model"

// State is the progress of a single height through the pipeline.
type State string

const (
	StatePending        State = "pending"
	StateFetched        State = "fetched"
	StateChainValidated State = "chain_validated"
	StatePersisted      State = "persisted"
	StateRewound        State = "rewound"
	StateFailed         State = "failed"
)

// Outcome reports how a height left the pipeline.
type Outcome struct {
	Height uint64
	Hash   string
	State  State
	// ResumeFrom is the next height to ingest when State is StateRewound.
	ResumeFrom uint64
	// Reorg is set whenever stored blocks were removed on the way.
	Reorg *model.ReorgEvent
}

// Decision is the verdict of a ChainValidator on a fetched block.
type Decision struct {
	// Persist is false when the chain was truncated below the block and syncing
	// has to resume from ResumeFrom instead.
	Persist    bool
	ResumeFrom uint64
	Reorg      *model.ReorgEvent
}
