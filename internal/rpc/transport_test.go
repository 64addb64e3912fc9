package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Call_Success(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `{"jsonrpc":"2.0","id":1,"result":7}`)

	raw, err := b.transport().Call(context.Background(), "common", "login", "acme", "api", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(raw))

	calls := b.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "common", calls[0].Service)
	assert.Equal(t, "login", calls[0].Method)
	require.Len(t, calls[0].Args, 3)
	assert.JSONEq(t, `"acme"`, string(calls[0].Args[0]))
}

func TestHTTPTransport_Call_NullResult(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "explicit null", body: `{"jsonrpc":"2.0","result":null}`},
		{name: "missing result", body: `{"jsonrpc":"2.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(t)
			b.reply("object", "execute_kw", tt.body)

			raw, err := b.transport().Call(context.Background(), "object", "execute_kw")
			require.NoError(t, err)
			assert.Nil(t, raw)
		})
	}
}

func TestHTTPTransport_Call_HTTPStatus(t *testing.T) {
	b := newFakeBackend(t)
	b.failWith(http.StatusInternalServerError)

	_, err := b.transport().Call(context.Background(), "common", "login")

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusInternalServerError, tErr.Status)
	assert.Contains(t, tErr.Error(), "500")
}

func TestHTTPTransport_Call_RemoteError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantMsg  string
		wantName string
	}{
		{
			name:     "sub-code message wins",
			body:     `{"jsonrpc":"2.0","error":{"code":200,"message":"Odoo Server Error","data":{"name":"odoo.exceptions.AccessDenied","message":"Access Denied"}}}`,
			wantMsg:  "Access Denied",
			wantName: "odoo.exceptions.AccessDenied",
		},
		{
			name:    "top-level message without data",
			body:    `{"jsonrpc":"2.0","error":{"message":"Invalid credentials"}}`,
			wantMsg: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(t)
			b.reply("common", "login", tt.body)

			raw, err := b.transport().Call(context.Background(), "common", "login")
			assert.Nil(t, raw)

			var rErr *RemoteError
			require.ErrorAs(t, err, &rErr)
			assert.Equal(t, tt.wantMsg, rErr.Error())
			assert.Equal(t, tt.wantName, rErr.Name)
		})
	}
}

func TestHTTPTransport_Call_MalformedBody(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `<html>maintenance</html>`)

	_, err := b.transport().Call(context.Background(), "common", "login")

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusOK, tErr.Status)
	assert.Error(t, tErr.Err)
}

func TestHTTPTransport_Call_NetworkFailure(t *testing.T) {
	b := newFakeBackend(t)
	tr := b.transport()
	b.server.Close()

	_, err := tr.Call(context.Background(), "common", "login")

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Zero(t, tErr.Status)
	assert.Error(t, errors.Unwrap(err))
}

func TestHTTPTransport_Call_UniqueIDs(t *testing.T) {
	b := newFakeBackend(t)
	tr := b.transport()

	for range 5 {
		_, err := tr.Call(context.Background(), "common", "version")
		require.NoError(t, err)
	}

	seen := map[uint64]bool{}
	var last uint64
	for _, c := range b.recorded() {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		assert.Greater(t, c.ID, last)
		seen[c.ID] = true
		last = c.ID
	}
}

func TestHTTPTransport_TrimsBaseURL(t *testing.T) {
	tr := NewHTTPTransport("https://example.odoo.com/", 0, zerolog.Nop())
	assert.Equal(t, "https://example.odoo.com/jsonrpc", tr.endpoint)
}

func TestResponse_Result(t *testing.T) {
	var r response
	require.NoError(t, json.Unmarshal([]byte(`{"result":[{"id":1}]}`), &r))

	res, ok := r.result().(Success)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(res.Payload))

	var failed response
	require.NoError(t, json.Unmarshal([]byte(`{"error":{"code":100,"message":"boom"}}`), &failed))
	fail, ok := failed.result().(Failure)
	require.True(t, ok)
	assert.Equal(t, 100, fail.Code)
	assert.Equal(t, "boom", fail.Message)
}
