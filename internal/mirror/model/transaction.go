package model

import "time"

// Transaction represents a transaction owned by exactly one block.
type Transaction struct {
	TxID        string
	Hash        string
	BlockHash   string
	BlockHeight uint64
	BlockTime   time.Time
	Position    uint32
	Version     int64
	Size        uint32
	VSize       uint32
	Weight      uint32
	LockTime    uint32
	Inputs      []TransactionInput
	Outputs     []TransactionOutput
}

// TransactionInput references a previous output or carries the coinbase marker.
type TransactionInput struct {
	TxID         string
	Index        uint32
	IsCoinbase   bool
	Coinbase     string
	PrevTxID     string
	PrevVout     uint32
	Sequence     uint32
	ScriptSigHex string
	ScriptSigAsm string
	Witness      []string
}

// TransactionOutput represents an output produced by a transaction.
type TransactionOutput struct {
	TxID       string
	Index      uint32
	Value      uint64
	ScriptType string
	ScriptHex  string
	ScriptAsm  string
	Addresses  []string
}
