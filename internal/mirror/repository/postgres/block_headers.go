package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/safe"
	"github.com/jackc/pgx/v5"
)

type headerRow struct {
	Height            int64     `db:"height"`
	Hash              string    `db:"hash"`
	PreviousBlockHash string    `db:"previousblockhash"`
	Time              time.Time `db:"time"`
	Difficulty        float64   `db:"difficulty"`
	Chainwork         string    `db:"chainwork"`
}

// BlockHeaders returns the stored headers in [fromHeight, toHeight] ordered by height.
func (r *Repository) BlockHeaders(ctx context.Context, fromHeight, toHeight uint64) (headers []model.BlockHeader, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_headers", err, start)
	}()

	from, err := safe.Int64(fromHeight)
	if err != nil {
		return nil, fmt.Errorf("block headers from: %w", err)
	}
	to, err := safe.Int64(toHeight)
	if err != nil {
		return nil, fmt.Errorf("block headers to: %w", err)
	}

	const query = `
SELECT height,
       hash::text AS hash,
       coalesce(previousblockhash::text, '') AS previousblockhash,
       time,
       difficulty,
       chainwork
FROM blocks
WHERE height BETWEEN $1 AND $2
ORDER BY height`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query block headers: %w", err)
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[headerRow])
	if err != nil {
		return nil, fmt.Errorf("scan block headers: %w", err)
	}

	headers = make([]model.BlockHeader, 0, len(collected))
	for _, row := range collected {
		height, convErr := safe.Uint64(row.Height)
		if convErr != nil {
			err = fmt.Errorf("block header height: %w", convErr)
			return nil, err
		}
		headers = append(headers, model.BlockHeader{
			Height:            height,
			Hash:              row.Hash,
			PreviousBlockHash: row.PreviousBlockHash,
			Time:              row.Time.UTC(),
			Difficulty:        row.Difficulty,
			Chainwork:         row.Chainwork,
		})
	}
	return headers, nil
}
