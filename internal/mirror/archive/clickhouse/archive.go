// Package clickhouse keeps the history of consistency audits in ClickHouse.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/batcher"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Archive buffers audit reports and writes them to ClickHouse in batches.
type Archive struct {
	conn    clickhouse.Conn
	metrics Metrics
	network model.Network
	batcher *batcher.Batcher[model.ConsistencyReport]
}

// NewArchive opens a ClickHouse connection for network's audit history.
func NewArchive(dsn string, network model.Network, metrics Metrics, cfg batcher.Config, logger *zap.Logger) (*Archive, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	a := &Archive{conn: conn, metrics: metrics, network: network}
	a.batcher = batcher.New(logger, a.InsertReports, cfg)
	return a, nil
}

// Start begins background flushing of queued reports.
func (a *Archive) Start(ctx context.Context) {
	a.batcher.Start(ctx)
}

// Close flushes queued reports and closes the connection.
func (a *Archive) Close() error {
	a.batcher.Stop()
	return a.conn.Close()
}

// ArchiveReport queues report for the next batch.
func (a *Archive) ArchiveReport(ctx context.Context, report model.ConsistencyReport) error {
	if err := a.batcher.Add(ctx, report); err != nil {
		return fmt.Errorf("queue audit report: %w", err)
	}
	return nil
}
