// Package model defines domain models of the chain mirror.
package model

import "time"

// Block represents a block persisted to the mirror together with its transactions.
type Block struct {
	Height            uint64
	Hash              string
	PreviousBlockHash string
	NextBlockHash     string
	Time              time.Time
	MedianTime        time.Time
	Nonce             uint32
	Bits              string
	Difficulty        float64
	Chainwork         string
	Size              uint32
	StrippedSize      uint32
	Weight            uint32
	Version           int32
	VersionHex        string
	MerkleRoot        string
	TxCount           uint32
	Transactions      []Transaction
}

// Header returns the subset of block fields compared by consistency audits.
func (b Block) Header() BlockHeader {
	return BlockHeader{
		Height:            b.Height,
		Hash:              b.Hash,
		PreviousBlockHash: b.PreviousBlockHash,
		Time:              b.Time,
		Difficulty:        b.Difficulty,
		Chainwork:         b.Chainwork,
	}
}

// BlockHeader is the linkage and proof-of-work view of a block.
type BlockHeader struct {
	Height            uint64
	Hash              string
	PreviousBlockHash string
	Time              time.Time
	Difficulty        float64
	Chainwork         string
}
