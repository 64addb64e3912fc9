package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/scout/internal/core/validate"
)

// Options are the keyword arguments passed to a model method. Zero values
// are left out of the request.
type Options struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// MarshalJSON encodes the options as the kwargs mapping the backend expects.
func (o Options) MarshalJSON() ([]byte, error) {
	kw := make(map[string]any, 4)
	if len(o.Fields) > 0 {
		kw["fields"] = o.Fields
	}
	if o.Limit > 0 {
		kw["limit"] = o.Limit
	}
	if o.Offset > 0 {
		kw["offset"] = o.Offset
	}
	if o.Order != "" {
		kw["order"] = o.Order
	}
	return json.Marshal(kw)
}

// Client executes model methods using a cached session.
type Client struct {
	transport Transport
	sessions  *Sessions
	log       zerolog.Logger
}

// NewClient creates a Client. sessions should be built once per client
// lifetime and shared by everything that talks to the same backend.
func NewClient(transport Transport, sessions *Sessions, log zerolog.Logger) *Client {
	return &Client{
		transport: transport,
		sessions:  sessions,
		log:       log,
	}
}

// Sessions returns the session manager backing this client.
func (c *Client) Sessions() *Sessions {
	return c.sessions
}

// Execute calls method on model through execute_kw. It returns a nil
// payload when the backend returned no result. Errors from the session
// manager or transport are returned unchanged; nothing is reported to the
// user at this layer.
func (c *Client) Execute(ctx context.Context, model, method string, args []any, opts Options) (json.RawMessage, error) {
	if err := validate.Identifier("model", model); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err := validate.Identifier("method", method); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidArgument)
	}
	if args == nil {
		args = []any{}
	}

	uid, err := c.sessions.Session(ctx)
	if err != nil {
		return nil, err
	}

	creds := c.sessions.Credentials()
	raw, err := c.transport.Call(ctx, "object", "execute_kw",
		creds.Database, uid, creds.Secret, model, method, args, opts)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.IsAuthFailure() {
			c.log.Warn().Str("model", model).Str("method", method).Msg("session rejected, invalidating")
			c.sessions.Invalidate()
		}
		return nil, fmt.Errorf("%s.%s: %w", model, method, err)
	}

	return raw, nil
}

// Version returns the backend's server version information. It does not
// require a session.
func (c *Client) Version(ctx context.Context) (ServerVersion, error) {
	raw, err := c.transport.Call(ctx, "common", "version")
	if err != nil {
		return ServerVersion{}, fmt.Errorf("version: %w", err)
	}

	var v ServerVersion
	if raw == nil {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ServerVersion{}, fmt.Errorf("decode version: %w", err)
	}
	return v, nil
}

// ServerVersion is the subset of common.version the CLI displays.
type ServerVersion struct {
	ServerVersion string `json:"server_version"`
	ProtocolVer   int    `json:"protocol_version"`
}

// ExecuteAs runs Execute and decodes the payload into T. ok is false when
// the backend returned no result.
func ExecuteAs[T any](ctx context.Context, c *Client, model, method string, args []any, opts Options) (v T, ok bool, err error) {
	raw, err := c.Execute(ctx, model, method, args, opts)
	if err != nil {
		return v, false, err
	}
	if raw == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decode %s.%s result: %w", model, method, err)
	}
	return v, true, nil
}
