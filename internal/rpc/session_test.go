package rpc

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Session_CachesAfterLogin(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `{"jsonrpc":"2.0","result":7}`)

	s := NewSessions(b.transport(), testCreds, zerolog.Nop())

	_, ok := s.Cached()
	assert.False(t, ok, "no session before first use")

	for range 3 {
		uid, err := s.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), uid)
	}

	assert.Equal(t, 1, b.count("common", "login"))

	calls := b.recorded()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Args, 3)
	assert.JSONEq(t, `"acme"`, string(calls[0].Args[0]))
	assert.JSONEq(t, `"api"`, string(calls[0].Args[1]))
	assert.JSONEq(t, `"k"`, string(calls[0].Args[2]))
}

func TestSessions_Invalidate_ForcesRelogin(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `{"jsonrpc":"2.0","result":7}`)

	s := NewSessions(b.transport(), testCreds, zerolog.Nop())

	_, err := s.Session(context.Background())
	require.NoError(t, err)

	s.Invalidate()
	_, ok := s.Cached()
	assert.False(t, ok)

	_, err = s.Session(context.Background())
	require.NoError(t, err)
	_, err = s.Session(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, b.count("common", "login"))
}

func TestSessions_Session_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "remote error",
			body: `{"jsonrpc":"2.0","error":{"message":"Invalid credentials"}}`,
			wantErr: func(t *testing.T, err error) {
				var rErr *RemoteError
				require.ErrorAs(t, err, &rErr)
				assert.Equal(t, "Invalid credentials", rErr.Error())
			},
		},
		{
			name: "false result",
			body: `{"jsonrpc":"2.0","result":false}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyAuth)
			},
		},
		{
			name: "null result",
			body: `{"jsonrpc":"2.0","result":null}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyAuth)
			},
		},
		{
			name: "zero uid",
			body: `{"jsonrpc":"2.0","result":0}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyAuth)
			},
		},
		{
			name:   "http failure",
			status: http.StatusBadGateway,
			wantErr: func(t *testing.T, err error) {
				var tErr *TransportError
				require.ErrorAs(t, err, &tErr)
				assert.Equal(t, http.StatusBadGateway, tErr.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(t)
			if tt.status != 0 {
				b.failWith(tt.status)
			} else {
				b.reply("common", "login", tt.body)
			}

			s := NewSessions(b.transport(), testCreds, zerolog.Nop())

			uid, err := s.Session(context.Background())
			assert.Zero(t, uid)
			tt.wantErr(t, err)

			_, ok := s.Cached()
			assert.False(t, ok, "failed login must not populate the cache")
		})
	}
}

func TestSessions_Session_ConcurrentCallersLoginOnce(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `{"jsonrpc":"2.0","result":3}`)

	s := NewSessions(b.transport(), testCreds, zerolog.Nop())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uid, err := s.Session(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, int64(3), uid)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, b.count("common", "login"))
}

func TestSessions_SeparateCredentialsDoNotShare(t *testing.T) {
	b := newFakeBackend(t)
	b.reply("common", "login", `{"jsonrpc":"2.0","result":5}`)

	tr := b.transport()
	first := NewSessions(tr, testCreds, zerolog.Nop())
	second := NewSessions(tr, Credentials{Database: "acme", Login: "other", Secret: "x"}, zerolog.Nop())

	_, err := first.Session(context.Background())
	require.NoError(t, err)
	_, err = second.Session(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, b.count("common", "login"))
}

func TestParseUID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "integer", raw: `42`, want: 42},
		{name: "false", raw: `false`, wantErr: true},
		{name: "negative", raw: `-1`, wantErr: true},
		{name: "fraction", raw: `1.5`, wantErr: true},
		{name: "string", raw: `"7"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUID([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
