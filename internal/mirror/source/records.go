package source

// Node responses are decoded into these records. Required fields are pointers (or
// slices) so that an absent field is distinguishable from a zero value; validate
// reports every missing one at once.

type blockchainInfoRecord struct {
	Chain  string `json:"chain"`
	Blocks *int64 `json:"blocks"`
}

type headerRecord struct {
	Hash              *string  `json:"hash"`
	Height            *int64   `json:"height"`
	PreviousBlockHash string   `json:"previousblockhash"`
	NextBlockHash     string   `json:"nextblockhash"`
	Time              *int64   `json:"time"`
	MedianTime        int64    `json:"mediantime"`
	Nonce             uint32   `json:"nonce"`
	Bits              *string  `json:"bits"`
	Difficulty        *float64 `json:"difficulty"`
	Chainwork         *string  `json:"chainwork"`
	Size              int64    `json:"size"`
	StrippedSize      int64    `json:"strippedsize"`
	Weight            int64    `json:"weight"`
	Version           int32    `json:"version"`
	VersionHex        string   `json:"versionHex"`
	MerkleRoot        *string  `json:"merkleroot"`
	NTx               *int64   `json:"nTx"`
}

type blockRecord struct {
	headerRecord
	Tx []txRecord `json:"tx"`
}

type txRecord struct {
	TxID     *string      `json:"txid"`
	Hash     string       `json:"hash"`
	Version  int64        `json:"version"`
	Size     *int64       `json:"size"`
	VSize    int64        `json:"vsize"`
	Weight   int64        `json:"weight"`
	LockTime uint32       `json:"locktime"`
	Vin      []vinRecord  `json:"vin"`
	Vout     []voutRecord `json:"vout"`
}

type vinRecord struct {
	Coinbase  string           `json:"coinbase"`
	TxID      string           `json:"txid"`
	Vout      uint32           `json:"vout"`
	ScriptSig *scriptSigRecord `json:"scriptSig"`
	Witness   []string         `json:"txinwitness"`
	Sequence  uint32           `json:"sequence"`
}

type scriptSigRecord struct {
	Asm string `json:"asm"`
	Hex string `json:"hex"`
}

type voutRecord struct {
	Value        *float64            `json:"value"`
	N            *uint32             `json:"n"`
	ScriptPubKey *scriptPubKeyRecord `json:"scriptPubKey"`
}

type scriptPubKeyRecord struct {
	Asm       string   `json:"asm"`
	Hex       string   `json:"hex"`
	Type      string   `json:"type"`
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}

type fieldCheck struct {
	record  string
	missing []string
}

func (c *fieldCheck) require(field string, present bool) {
	if !present {
		c.missing = append(c.missing, field)
	}
}

func (c *fieldCheck) err() error {
	if len(c.missing) == 0 {
		return nil
	}
	return &MissingFieldError{Record: c.record, Fields: c.missing}
}

func (r blockchainInfoRecord) validate() error {
	check := fieldCheck{record: "blockchaininfo"}
	check.require("blocks", r.Blocks != nil)
	return check.err()
}

func (r headerRecord) validate() error {
	check := fieldCheck{record: "block"}
	check.require("hash", r.Hash != nil)
	check.require("height", r.Height != nil)
	check.require("time", r.Time != nil)
	check.require("bits", r.Bits != nil)
	check.require("difficulty", r.Difficulty != nil)
	check.require("chainwork", r.Chainwork != nil)
	check.require("merkleroot", r.MerkleRoot != nil)
	if r.Height != nil && *r.Height > 0 {
		check.require("previousblockhash", r.PreviousBlockHash != "")
	}
	return check.err()
}

func (r blockRecord) validate() error {
	if err := r.headerRecord.validate(); err != nil {
		return err
	}
	check := fieldCheck{record: "block"}
	check.require("nTx", r.NTx != nil)
	check.require("tx", r.Tx != nil)
	if err := check.err(); err != nil {
		return err
	}
	for i := range r.Tx {
		if err := r.Tx[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r txRecord) validate() error {
	check := fieldCheck{record: "transaction"}
	check.require("txid", r.TxID != nil)
	check.require("size", r.Size != nil)
	check.require("vin", r.Vin != nil)
	check.require("vout", r.Vout != nil)
	for _, vin := range r.Vin {
		if vin.Coinbase == "" {
			check.require("vin.txid", vin.TxID != "")
		}
	}
	for _, vout := range r.Vout {
		check.require("vout.value", vout.Value != nil)
		check.require("vout.n", vout.N != nil)
		check.require("vout.scriptPubKey", vout.ScriptPubKey != nil)
	}
	return check.err()
}
