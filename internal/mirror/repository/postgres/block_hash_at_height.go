package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/pkg/safe"
	"github.com/jackc/pgx/v5"
)

// BlockHashAtHeight returns the stored hash at height; ok is false when no block is stored there.
func (r *Repository) BlockHashAtHeight(ctx context.Context, height uint64) (hash string, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_hash_at_height", err, start)
	}()

	h, err := safe.Int64(height)
	if err != nil {
		return "", false, fmt.Errorf("block hash height: %w", err)
	}

	const query = `SELECT hash::text FROM blocks WHERE height = $1`

	err = r.pool.QueryRow(ctx, query, h).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query block hash at %d: %w", height, err)
	}
	return hash, true, nil
}
