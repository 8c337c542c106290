package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/pkg/safe"
)

// MaxBlockHeight returns the checkpoint of the mirror; ok is false for an empty store.
func (r *Repository) MaxBlockHeight(ctx context.Context) (height uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_height", err, start)
	}()

	const query = `SELECT max(height) FROM blocks`

	var maxHeight *int64
	if err = r.pool.QueryRow(ctx, query).Scan(&maxHeight); err != nil {
		return 0, false, fmt.Errorf("query max block height: %w", err)
	}
	if maxHeight == nil {
		return 0, false, nil
	}

	height, err = safe.Uint64(*maxHeight)
	if err != nil {
		return 0, false, fmt.Errorf("max block height: %w", err)
	}
	return height, true, nil
}
