package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"go.uber.org/ratelimit"
)

// RPCClient issues bounded, paced node calls and classifies their failures.
// Each call is a single request; retry policy belongs to the caller.
type RPCClient struct {
	client     RawRequester
	rpcMetrics RPCMetrics
	limiter    ratelimit.Limiter
	timeout    time.Duration
}

// NewRPCClient constructs a client that waits at least minInterval between consecutive
// calls and gives up on a call after timeout.
func NewRPCClient(client RawRequester, rpcMetrics RPCMetrics, timeout, minInterval time.Duration) *RPCClient {
	limiter := ratelimit.NewUnlimited()
	if minInterval > 0 {
		limiter = ratelimit.New(1, ratelimit.Per(minInterval), ratelimit.WithoutSlack)
	}
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		limiter:    limiter,
		timeout:    timeout,
	}
}

// Call sends method with params and returns the raw result of the response envelope.
func (c *RPCClient) Call(ctx context.Context, method string, params ...any) (result json.RawMessage, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe(method, err, started)
	}()

	rawParams := make([]json.RawMessage, 0, len(params))
	for i, param := range params {
		raw, marshalErr := json.Marshal(param)
		if marshalErr != nil {
			return nil, fmt.Errorf("encode %s param %d: %w", method, i, marshalErr)
		}
		rawParams = append(rawParams, raw)
	}

	if err = ctx.Err(); err != nil {
		return nil, &NetworkError{Method: method, Err: err}
	}
	c.limiter.Take()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, reqErr := c.client.RawRequest(ctx, method, rawParams)
	if reqErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &NetworkError{Method: method, Err: ctxErr}
		}
		return nil, classify(method, reqErr)
	}
	if len(bytes.TrimSpace(res)) == 0 {
		return nil, &RemoteProtocolError{Method: method, Err: errors.New("empty result")}
	}
	return res, nil
}

func classify(method string, err error) error {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return &RemoteProtocolError{
			Method:  method,
			Code:    int(rpcErr.Code),
			Message: rpcErr.Message,
			Err:     err,
		}
	}
	return &NetworkError{Method: method, Err: err}
}
