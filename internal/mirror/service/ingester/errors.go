package ingester

import (
	"fmt"
)

// PersistenceError reports a failed store operation. A failed SaveBlock leaves no
// partial rows behind.
type PersistenceError struct {
	Op     string
	Height uint64
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s at height %d: %v", e.Op, e.Height, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReorgUnresolvedError reports a divergence whose fork point could not be located.
// Syncing cannot continue without an operator resync from a known-good height.
type ReorgUnresolvedError struct {
	Height      uint64
	StartHeight uint64
	Searched    uint64
	Reason      string
}

func (e *ReorgUnresolvedError) Error() string {
	return fmt.Sprintf("unresolved reorg at height %d: %s after searching %d heights (start height %d)",
		e.Height, e.Reason, e.Searched, e.StartHeight)
}

// IngestError wraps the failure of a single height together with the state it had
// reached when the failing step ran.
type IngestError struct {
	Height uint64
	State  State
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest height %d failed in state %s: %v", e.Height, e.State, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }
