// Package auditor cross-checks a trailing window of the mirror against the node.
package auditor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		MaxBlockHeight(ctx context.Context) (uint64, bool, error)
		BlockHeaders(ctx context.Context, fromHeight, toHeight uint64) ([]model.BlockHeader, error)
	}
	Node interface {
		BlockHeader(ctx context.Context, height uint64) (model.BlockHeader, error)
	}
	Metrics interface {
		ObserveRun(err error, started time.Time)
		ObserveReport(percentage float64, checked int, discrepancies map[string]int, types []string)
	}
	// ReportArchive keeps the history of audit reports.
	ReportArchive interface {
		ArchiveReport(ctx context.Context, report model.ConsistencyReport) error
	}
	ReportPublisher interface {
		PublishAudit(ctx context.Context, report model.ConsistencyReport) error
	}
)
