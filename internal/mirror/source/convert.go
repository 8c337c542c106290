package source

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/safe"
)

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

func buildHeader(src headerRecord) (model.BlockHeader, error) {
	height, err := safe.Uint64(*src.Height)
	if err != nil {
		return model.BlockHeader{}, fmt.Errorf("block height %d: %w", *src.Height, err)
	}
	return model.BlockHeader{
		Height:            height,
		Hash:              *src.Hash,
		PreviousBlockHash: src.PreviousBlockHash,
		Time:              time.Unix(*src.Time, 0).UTC(),
		Difficulty:        *src.Difficulty,
		Chainwork:         *src.Chainwork,
	}, nil
}

func buildBlock(src blockRecord, decoder *scriptDecoder) (model.Block, error) {
	header, err := buildHeader(src.headerRecord)
	if err != nil {
		return model.Block{}, err
	}
	if *src.NTx != int64(len(src.Tx)) {
		return model.Block{}, fmt.Errorf("block %d reports nTx %d but carries %d transactions", header.Height, *src.NTx, len(src.Tx))
	}
	size, err := safe.Uint32(src.Size)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d size: %w", header.Height, err)
	}
	strippedSize, err := safe.Uint32(src.StrippedSize)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d stripped size: %w", header.Height, err)
	}
	weight, err := safe.Uint32(src.Weight)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d weight: %w", header.Height, err)
	}
	txCount, err := safe.Uint32(*src.NTx)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %d tx count: %w", header.Height, err)
	}

	block := model.Block{
		Height:            header.Height,
		Hash:              header.Hash,
		PreviousBlockHash: header.PreviousBlockHash,
		NextBlockHash:     src.NextBlockHash,
		Time:              header.Time,
		MedianTime:        time.Unix(src.MedianTime, 0).UTC(),
		Nonce:             src.Nonce,
		Bits:              *src.Bits,
		Difficulty:        header.Difficulty,
		Chainwork:         header.Chainwork,
		Size:              size,
		StrippedSize:      strippedSize,
		Weight:            weight,
		Version:           src.Version,
		VersionHex:        src.VersionHex,
		MerkleRoot:        *src.MerkleRoot,
		TxCount:           txCount,
		Transactions:      make([]model.Transaction, 0, len(src.Tx)),
	}
	for i, tx := range src.Tx {
		converted, err := buildTransaction(block, i, tx, decoder)
		if err != nil {
			return model.Block{}, err
		}
		block.Transactions = append(block.Transactions, converted)
	}
	return block, nil
}

func buildTransaction(block model.Block, position int, src txRecord, decoder *scriptDecoder) (model.Transaction, error) {
	txid := *src.TxID
	pos, err := safe.Uint32(position)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s position: %w", txid, err)
	}
	size, err := safe.Uint32(*src.Size)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s size: %w", txid, err)
	}
	vsize, err := safe.Uint32(src.VSize)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s vsize: %w", txid, err)
	}
	weight, err := safe.Uint32(src.Weight)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s weight: %w", txid, err)
	}

	tx := model.Transaction{
		TxID:        txid,
		Hash:        src.Hash,
		BlockHash:   block.Hash,
		BlockHeight: block.Height,
		BlockTime:   block.Time,
		Position:    pos,
		Version:     src.Version,
		Size:        size,
		VSize:       vsize,
		Weight:      weight,
		LockTime:    src.LockTime,
		Inputs:      make([]model.TransactionInput, 0, len(src.Vin)),
		Outputs:     make([]model.TransactionOutput, 0, len(src.Vout)),
	}

	for i, vin := range src.Vin {
		index, err := safe.Uint32(i)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s input index: %w", txid, err)
		}
		input := model.TransactionInput{
			TxID:     txid,
			Index:    index,
			Sequence: vin.Sequence,
			Witness:  append([]string(nil), vin.Witness...),
		}
		if vin.Coinbase != "" {
			input.IsCoinbase = true
			input.Coinbase = vin.Coinbase
		} else {
			input.PrevTxID = vin.TxID
			input.PrevVout = vin.Vout
		}
		if vin.ScriptSig != nil {
			input.ScriptSigHex = vin.ScriptSig.Hex
			input.ScriptSigAsm = vin.ScriptSig.Asm
		}
		tx.Inputs = append(tx.Inputs, input)
	}

	for _, vout := range src.Vout {
		value, err := BtcToSatoshis(*vout.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d value: %w", txid, *vout.N, err)
		}
		addresses, err := decoder.decodeAddresses(*vout.ScriptPubKey)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d addresses: %w", txid, *vout.N, err)
		}
		tx.Outputs = append(tx.Outputs, model.TransactionOutput{
			TxID:       txid,
			Index:      *vout.N,
			Value:      value,
			ScriptType: vout.ScriptPubKey.Type,
			ScriptHex:  vout.ScriptPubKey.Hex,
			ScriptAsm:  vout.ScriptPubKey.Asm,
			Addresses:  addresses,
		})
	}
	return tx, nil
}
