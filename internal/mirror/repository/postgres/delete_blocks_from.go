package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/pkg/safe"
)

// DeleteBlocksFrom removes every block at or above fromHeight. Transactions, inputs and
// outputs go with them through the cascading foreign keys.
func (r *Repository) DeleteBlocksFrom(ctx context.Context, fromHeight uint64) (removed int64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("delete_blocks_from", err, start)
	}()

	from, err := safe.Int64(fromHeight)
	if err != nil {
		return 0, fmt.Errorf("delete blocks height: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM blocks WHERE height >= $1`, from)
	if err != nil {
		return 0, fmt.Errorf("delete blocks from %d: %w", fromHeight, err)
	}
	return tag.RowsAffected(), nil
}
