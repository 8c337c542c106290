package source

import (
	"errors"
	"fmt"
	"strings"
)

// Node error codes that clear up on their own.
const (
	codeInInitialDownload = -10
	codeInWarmup          = -28
)

// NetworkError reports a transport-level failure or timeout of a node call.
type NetworkError struct {
	Method string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("rpc %s: network: %v", e.Method, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteProtocolError reports an error envelope returned by the node or a response
// that could not be decoded into the expected record.
type RemoteProtocolError struct {
	Method  string
	Code    int
	Message string
	Err     error
}

func (e *RemoteProtocolError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rpc %s: remote error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("rpc %s: protocol: %v", e.Method, e.Err)
}

func (e *RemoteProtocolError) Unwrap() error { return e.Err }

// MissingFieldError reports a required field absent from a node response.
type MissingFieldError struct {
	Record string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record missing required fields: %s", e.Record, strings.Join(e.Fields, ", "))
}

// Retryable reports whether err is a node failure that may succeed later: a transport
// failure or timeout, or a node that is still warming up or in initial block download.
// Malformed responses and other error envelopes are not retryable.
func Retryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var remoteErr *RemoteProtocolError
	if errors.As(err, &remoteErr) {
		return remoteErr.Code == codeInWarmup || remoteErr.Code == codeInInitialDownload
	}
	return false
}
