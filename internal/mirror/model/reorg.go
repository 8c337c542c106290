package model

import "time"

// ReorgEvent describes a truncation of the mirrored chain.
type ReorgEvent struct {
	DetectedAt    uint64    `json:"detected_at"`
	ForkHeight    uint64    `json:"fork_height"`
	ResumeFrom    uint64    `json:"resume_from"`
	RemovedBlocks int64     `json:"removed_blocks"`
	StoredHash    string    `json:"stored_hash"`
	RemoteHash    string    `json:"remote_hash"`
	Time          time.Time `json:"time"`
}
