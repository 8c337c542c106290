// Package ingester mirrors the node's best chain into the store one height at a time.
package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Node interface {
		TipHeight(ctx context.Context) (uint64, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		Block(ctx context.Context, hash string) (model.Block, error)
	}
	Store interface {
		MaxBlockHeight(ctx context.Context) (uint64, bool, error)
		BlockHashAtHeight(ctx context.Context, height uint64) (string, bool, error)
		SaveBlock(ctx context.Context, block model.Block) error
		DeleteBlocksFrom(ctx context.Context, fromHeight uint64) (int64, error)
	}
	ChainValidator interface {
		Check(ctx context.Context, block model.Block) (Decision, error)
	}
	HeightIngester interface {
		IngestHeight(ctx context.Context, height uint64) (Outcome, error)
	}
	EventPublisher interface {
		PublishReorg(ctx context.Context, event model.ReorgEvent) error
	}
	SyncMetrics interface {
		ObserveHeight(state string, started time.Time)
		ObserveRound(err error, persisted uint64)
		ObserveReorg(removed int64)
		SetHeights(checkpoint, tip uint64)
	}
)
