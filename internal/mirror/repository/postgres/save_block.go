package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/safe"
	"github.com/jackc/pgx/v5"
)

var (
	transactionColumns = []string{
		"block_height", "txid", "hash", "block_hash", "block_time", "position",
		"version", "size", "vsize", "weight", "locktime",
	}
	inputColumns = []string{
		"block_height", "txid", "input_index", "is_coinbase", "coinbase", "prev_txid",
		"prev_vout", "sequence", "script_sig_hex", "script_sig_asm", "witness",
	}
	outputColumns = []string{
		"block_height", "txid", "output_index", "value", "script_type", "script_hex",
		"script_asm", "addresses",
	}
)

// SaveBlock replaces whatever is stored at the block's height or under its hash with the
// block and all of its transactions, inputs and outputs, in one transaction.
func (r *Repository) SaveBlock(ctx context.Context, block model.Block) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("save_block", err, start)
	}()

	height, err := safe.Int64(block.Height)
	if err != nil {
		return fmt.Errorf("save block height: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save block %d: %w", block.Height, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM blocks WHERE height = $1 OR hash = $2`, height, block.Hash); err != nil {
		return fmt.Errorf("replace block %d: %w", block.Height, err)
	}

	const insertBlock = `
INSERT INTO blocks (
	height, hash, previousblockhash, nextblockhash, time, mediantime, nonce, bits,
	difficulty, chainwork, size, strippedsize, weight, version, versionhex, merkleroot, ntx
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	if _, err = tx.Exec(ctx, insertBlock,
		height,
		block.Hash,
		nullString(block.PreviousBlockHash),
		nullString(block.NextBlockHash),
		block.Time,
		block.MedianTime,
		int64(block.Nonce),
		block.Bits,
		block.Difficulty,
		block.Chainwork,
		int64(block.Size),
		int64(block.StrippedSize),
		int64(block.Weight),
		block.Version,
		block.VersionHex,
		block.MerkleRoot,
		int64(block.TxCount),
	); err != nil {
		return fmt.Errorf("insert block %d: %w", block.Height, err)
	}

	txRows, inputRows, outputRows := blockRows(height, block)

	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"transactions"}, transactionColumns, pgx.CopyFromRows(txRows)); err != nil {
		return fmt.Errorf("copy transactions of block %d: %w", block.Height, err)
	}
	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"tx_inputs"}, inputColumns, pgx.CopyFromRows(inputRows)); err != nil {
		return fmt.Errorf("copy inputs of block %d: %w", block.Height, err)
	}
	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"tx_outputs"}, outputColumns, pgx.CopyFromRows(outputRows)); err != nil {
		return fmt.Errorf("copy outputs of block %d: %w", block.Height, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit block %d: %w", block.Height, err)
	}
	return nil
}

func blockRows(height int64, block model.Block) (txRows, inputRows, outputRows [][]any) {
	txRows = make([][]any, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		txRows = append(txRows, []any{
			height,
			tx.TxID,
			tx.Hash,
			block.Hash,
			tx.BlockTime,
			int64(tx.Position),
			tx.Version,
			int64(tx.Size),
			int64(tx.VSize),
			int64(tx.Weight),
			int64(tx.LockTime),
		})
		for _, in := range tx.Inputs {
			var prevVout any
			if !in.IsCoinbase {
				prevVout = int64(in.PrevVout)
			}
			inputRows = append(inputRows, []any{
				height,
				tx.TxID,
				int64(in.Index),
				in.IsCoinbase,
				nullString(in.Coinbase),
				nullString(in.PrevTxID),
				prevVout,
				int64(in.Sequence),
				in.ScriptSigHex,
				in.ScriptSigAsm,
				textArray(in.Witness),
			})
		}
		for _, out := range tx.Outputs {
			outputRows = append(outputRows, []any{
				height,
				tx.TxID,
				int64(out.Index),
				int64(out.Value),
				out.ScriptType,
				out.ScriptHex,
				out.ScriptAsm,
				textArray(out.Addresses),
			})
		}
	}
	return txRows, inputRows, outputRows
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// textArray keeps empty sequences as '{}' rather than NULL.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
