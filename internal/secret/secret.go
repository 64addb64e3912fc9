// Package secret stores the backend secret in the OS keyring and resolves
// which secret a run should use.
package secret

import (
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies scout's namespace in the keyring.
const ServiceName = "scout"

// ErrNotFound is returned when no secret is stored for a key.
var ErrNotFound = errors.New("secret not found in keyring")

// Store is a thread-safe view of the keyring.
type Store struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// nativeBackends lists the OS keyring backends usable on this platform.
// The encrypted file backend is excluded since it would prompt for its
// own password.
func nativeBackends() []keyring.BackendType {
	var out []keyring.BackendType
	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			out = append(out, b)
		}
	}
	return out
}

// Available reports whether an OS keyring backend exists.
func Available() bool {
	return len(nativeBackends()) > 0
}

// Open opens the OS keyring.
func Open() (*Store, error) {
	backends := nativeBackends()
	if len(backends) == 0 {
		return nil, errors.New("no OS keyring available")
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          backends,
		KeychainTrustApplication: true,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return New(ring), nil
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the secret stored under key.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring get: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	if value == "" {
		return errors.New("refusing to store an empty secret")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       "scout: " + key,
		Description: "scout backend secret",
	})
	if err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Delete removes the secret under key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keyring remove: %w", err)
	}
	return nil
}

// Source names where a resolved secret came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Opener opens the keyring on demand so runs that never need it skip the
// platform prompt.
type Opener func() (*Store, error)

// Resolve picks the secret from the config file, then the environment, then
// the keyring entry under key.
func Resolve(configured, env, key string, open Opener) (string, Source, error) {
	if configured != "" {
		return configured, SourceConfig, nil
	}
	if env != "" {
		return env, SourceEnv, nil
	}
	if open == nil {
		return "", "", ErrNotFound
	}

	store, err := open()
	if err != nil {
		return "", "", err
	}
	value, err := store.Get(key)
	if err != nil {
		return "", "", err
	}
	return value, SourceKeyring, nil
}
