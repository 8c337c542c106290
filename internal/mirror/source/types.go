// Package source talks to the node the mirror follows.
package source

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RawRequester issues a single JSON-RPC request; *rpcclient.Client satisfies it.
	RawRequester interface {
		RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error)
	}
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Caller performs one node call and returns its raw result.
	Caller interface {
		Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	}
)
