// Package rpc implements the JSON-RPC client used to talk to the backend:
// the HTTP transport, the session manager and the generic invoker.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize int64 = 256 << 20

// Endpoint is the path every call is posted to.
const Endpoint = "/jsonrpc"

// Transport sends a single remote call and returns its decoded payload.
type Transport interface {
	// Call invokes method on service with positional args. The returned
	// payload is nil when the backend returned no result.
	Call(ctx context.Context, service, method string, args ...any) (json.RawMessage, error)
}

// HTTPTransport implements Transport over HTTP POST.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
	nextID   atomic.Uint64
}

// NewHTTPTransport creates a transport posting to <baseURL>/jsonrpc. A zero
// timeout leaves the http.Client default (no timeout) in place.
func NewHTTPTransport(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPTransport {
	return &HTTPTransport{
		endpoint: strings.TrimRight(baseURL, "/") + Endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Call implements Transport. Failures are never retried.
func (t *HTTPTransport) Call(ctx context.Context, service, method string, args ...any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}

	id := t.nextID.Add(1)
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  "call",
		Params: params{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: id,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	t.log.Debug().
		Uint64("id", id).
		Str("service", service).
		Str("method", method).
		Msg("rpc call")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, &TransportError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var envelope response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	switch r := envelope.result().(type) {
	case Success:
		return r.Payload, nil
	case Failure:
		t.log.Debug().
			Uint64("id", id).
			Str("name", r.Name).
			Str("message", r.Message).
			Msg("rpc error")
		return nil, newRemoteError(r)
	default:
		panic(fmt.Sprintf("rpc: unhandled result %T", r))
	}
}
