package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Credentials identify a principal against one backend database.
type Credentials struct {
	Database string
	Login    string
	Secret   string
}

// Sessions obtains and caches the session identifier for a single set of
// credentials. A Sessions value is never shared across credentials; build a
// new one for each.
type Sessions struct {
	transport Transport
	creds     Credentials
	log       zerolog.Logger

	mu  sync.Mutex
	uid int64 // 0 means no cached session
}

// NewSessions creates a session manager. No network call is made until the
// first Session call.
func NewSessions(transport Transport, creds Credentials, log zerolog.Logger) *Sessions {
	return &Sessions{
		transport: transport,
		creds:     creds,
		log:       log,
	}
}

// Credentials returns the credentials this manager authenticates with.
func (s *Sessions) Credentials() Credentials {
	return s.creds
}

// Session returns the cached session identifier, logging in first when the
// cache is empty. On failure the cache stays empty and the error is
// returned; callers treat that as "nothing to show".
func (s *Sessions) Session(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uid != 0 {
		return s.uid, nil
	}

	s.log.Debug().
		Str("database", s.creds.Database).
		Str("login", s.creds.Login).
		Msg("authenticating")

	raw, err := s.transport.Call(ctx, "common", "login", s.creds.Database, s.creds.Login, s.creds.Secret)
	if err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}

	uid, err := parseUID(raw)
	if err != nil {
		return 0, err
	}

	s.uid = uid
	s.log.Info().
		Str("database", s.creds.Database).
		Str("login", s.creds.Login).
		Int64("uid", uid).
		Msg("authenticated")

	return uid, nil
}

// Cached returns the cached session identifier without authenticating.
func (s *Sessions) Cached() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid, s.uid != 0
}

// Invalidate clears the cache; the next Session call logs in again.
func (s *Sessions) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uid != 0 {
		s.log.Debug().Int64("uid", s.uid).Msg("session invalidated")
	}
	s.uid = 0
}

// parseUID accepts a positive integer. The backend answers `false` for bad
// credentials, which is reported as ErrEmptyAuth like null or zero.
func parseUID(raw json.RawMessage) (int64, error) {
	if raw == nil {
		return 0, ErrEmptyAuth
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode login result: %w", err)
	}

	n, ok := v.(float64)
	if !ok || n < 1 || n != float64(int64(n)) {
		return 0, ErrEmptyAuth
	}

	return int64(n), nil
}
