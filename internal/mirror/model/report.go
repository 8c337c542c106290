package model

import "time"

// DiscrepancyType classifies a difference between the mirror and the node.
type DiscrepancyType string

const (
	HashMismatch       DiscrepancyType = "hash_mismatch"
	PrevHashMismatch   DiscrepancyType = "prev_hash_mismatch"
	ChainworkMismatch  DiscrepancyType = "chainwork_mismatch"
	DifficultyMismatch DiscrepancyType = "difficulty_mismatch"
	MissingBlock       DiscrepancyType = "missing_block"
)

// DiscrepancyTypes lists every type in report order.
var DiscrepancyTypes = []DiscrepancyType{
	HashMismatch,
	PrevHashMismatch,
	ChainworkMismatch,
	DifficultyMismatch,
	MissingBlock,
}

type ReportStatus string

const (
	StatusHealthy      ReportStatus = "healthy"
	StatusInconsistent ReportStatus = "inconsistent"
)

// ConsistencyReport is the outcome of one audit of a trailing window of the mirror.
type ConsistencyReport struct {
	CheckTime          time.Time     `json:"check_time"`
	BlocksChecked      CheckedRange  `json:"blocks_checked"`
	Consistency        Consistency   `json:"consistency"`
	Inconsistencies    []Discrepancy `json:"inconsistencies"`
	UnreachableHeights []uint64      `json:"unreachable_heights"`
	Status             ReportStatus  `json:"status"`
}

type CheckedRange struct {
	StartHeight uint64 `json:"start_height"`
	EndHeight   uint64 `json:"end_height"`
	Total       uint64 `json:"total"`
}

type Consistency struct {
	Percentage           float64 `json:"percentage"`
	TotalInconsistencies int     `json:"total_inconsistencies"`
	MissingBlocks        int     `json:"missing_blocks"`
}

// Discrepancy records one difference; Expected is the node's value and Actual the mirror's.
type Discrepancy struct {
	Height      uint64          `json:"height"`
	Type        DiscrepancyType `json:"type"`
	Expected    string          `json:"expected"`
	Actual      string          `json:"actual"`
	Description string          `json:"description"`
}

// CountByType tallies discrepancies per type.
func (r ConsistencyReport) CountByType() map[string]int {
	counts := make(map[string]int, len(DiscrepancyTypes))
	for _, d := range r.Inconsistencies {
		counts[string(d.Type)]++
	}
	return counts
}
