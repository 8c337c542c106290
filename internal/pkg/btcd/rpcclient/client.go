// Package rpcclient sends bitcoind-style JSON-RPC requests over HTTP POST, one round trip per call.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcjson"
)

const maxResponseBytes = 64 << 20

// Client issues each request as exactly one HTTP round trip bounded by the caller's context.
// It never retries and never queues requests behind each other.
type Client struct {
	httpClient *http.Client
	endpoint   string
	user       string
	password   string
	nextID     atomic.Uint64
}

// Dial returns a client for the node at rawURL. Credentials in the URL are used
// unless user is set explicitly.
func Dial(rawURL, user, password string) (*Client, error) {
	endpoint, user, password, err := parseEndpoint(rawURL, user, password)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 90 * time.Second

	return &Client{
		httpClient: &http.Client{Transport: transport},
		endpoint:   endpoint,
		user:       user,
		password:   password,
	}, nil
}

// Close drops idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RawRequest sends method with already encoded params and returns the result of the
// response envelope. An error envelope is returned as *btcjson.RPCError.
func (c *Client) RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error) {
	if params == nil {
		params = []json.RawMessage{}
	}
	body, err := json.Marshal(&btcjson.Request{
		Jsonrpc: btcjson.RpcVersion1,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	return decodeResponse(resp.StatusCode, raw)
}

// decodeResponse unpacks the envelope. bitcoind answers RPC errors with a non-200 status
// and a JSON body, so the body is tried before the status.
func decodeResponse(status int, raw []byte) (json.RawMessage, error) {
	var envelope btcjson.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("http status %d: %s", status, bytes.TrimSpace(truncate(raw, 256)))
		}
		return nil, &btcjson.RPCError{
			Code:    btcjson.ErrRPCParse.Code,
			Message: fmt.Sprintf("malformed response: %v", err),
		}
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("http status %d without error envelope", status)
	}
	return envelope.Result, nil
}

func truncate(raw []byte, n int) []byte {
	if len(raw) > n {
		return raw[:n]
	}
	return raw
}

func parseEndpoint(rawURL, user, password string) (endpoint, u, p string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", "", fmt.Errorf("rpc url scheme %q not supported, use http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", "", "", errors.New("rpc url missing host")
	}

	if user == "" && parsed.User != nil {
		user = parsed.User.Username()
		password, _ = parsed.User.Password()
	}
	parsed.User = nil

	return parsed.String(), user, password, nil
}
