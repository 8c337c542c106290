package ingester

import (
	"fmt"
	"strings"
)

// FailurePolicy decides what the sync loop does with a height that failed to ingest.
type FailurePolicy string

const (
	// PolicyAbort stops the loop and surfaces the error, keeping heights contiguous.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip logs the failure and moves on, leaving a gap to backfill later.
	PolicySkip FailurePolicy = "skip"
)

// UnmarshalFlag implements flags.Unmarshaler.
func (p *FailurePolicy) UnmarshalFlag(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(PolicyAbort):
		*p = PolicyAbort
	case string(PolicySkip), "skip-and-continue":
		*p = PolicySkip
	default:
		return fmt.Errorf("unknown failure policy %q (want abort or skip)", value)
	}
	return nil
}
