package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
)

// InsertReports stores report summaries and their discrepancies.
func (a *Archive) InsertReports(ctx context.Context, reports []model.ConsistencyReport) (err error) {
	start := time.Now()
	defer func() {
		a.metrics.Observe("insert_reports", err, start)
	}()

	if len(reports) == 0 {
		return nil
	}

	if err = a.insertAudits(ctx, reports); err != nil {
		return err
	}
	return a.insertDiscrepancies(ctx, reports)
}

func (a *Archive) insertAudits(ctx context.Context, reports []model.ConsistencyReport) error {
	const query = `
INSERT INTO consistency_audits (
	network,
	check_time,
	start_height,
	end_height,
	checked_blocks,
	percentage,
	total_inconsistencies,
	missing_blocks,
	unreachable_heights,
	status
) VALUES`

	batch, err := a.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare audits batch: %w", err)
	}

	for _, row := range auditRows(a.network, reports) {
		if err := batch.Append(row...); err != nil {
			return fmt.Errorf("append audit: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert audits: %w", err)
	}
	return nil
}

func (a *Archive) insertDiscrepancies(ctx context.Context, reports []model.ConsistencyReport) error {
	rows := discrepancyRows(a.network, reports)
	if len(rows) == 0 {
		return nil
	}

	const query = `
INSERT INTO consistency_discrepancies (
	network,
	check_time,
	height,
	type,
	expected,
	actual,
	description
) VALUES`

	batch, err := a.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare discrepancies batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			return fmt.Errorf("append discrepancy: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert discrepancies: %w", err)
	}
	return nil
}

func auditRows(network model.Network, reports []model.ConsistencyReport) [][]any {
	rows := make([][]any, 0, len(reports))
	for _, r := range reports {
		unreachable := r.UnreachableHeights
		if unreachable == nil {
			unreachable = []uint64{}
		}
		rows = append(rows, []any{
			string(network),
			r.CheckTime.UTC(),
			r.BlocksChecked.StartHeight,
			r.BlocksChecked.EndHeight,
			r.BlocksChecked.Total,
			r.Consistency.Percentage,
			uint64(r.Consistency.TotalInconsistencies),
			uint64(r.Consistency.MissingBlocks),
			unreachable,
			string(r.Status),
		})
	}
	return rows
}

func discrepancyRows(network model.Network, reports []model.ConsistencyReport) [][]any {
	var rows [][]any
	for _, r := range reports {
		for _, d := range r.Inconsistencies {
			rows = append(rows, []any{
				string(network),
				r.CheckTime.UTC(),
				d.Height,
				string(d.Type),
				d.Expected,
				d.Actual,
				d.Description,
			})
		}
	}
	return rows
}
