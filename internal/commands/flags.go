package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/internal/rpc"
	"github.com/hay-kot/scout/internal/secret"
	"github.com/hay-kot/scout/internal/store/jsonfile"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Secret comes from SCOUT_SECRET and is used when the config file has none.
	Secret string

	// Config is loaded in the Before hook and available to all commands
	// except init.
	Config *config.Config

	// OpenKeyring opens the OS keyring. Replaced in tests.
	OpenKeyring secret.Opener

	backend *Backend
}

// Backend is the connection to the server, built on first use.
type Backend struct {
	Client  *rpc.Client
	Service *query.Service

	// Source says where the secret was resolved from.
	Source secret.Source
	secret string
}

// ErrNoSecret is returned when no secret is configured anywhere.
var ErrNoSecret = errors.New("no secret configured: set SCOUT_SECRET, add secret to the config file, or run 'scout login --save-secret'")

// Connect resolves the secret and builds the RPC client and query service.
// Search failures are reported through the printer in ctx. No network
// call is made until the first query.
func (f *Flags) Connect(ctx context.Context) (*Backend, error) {
	if f.backend != nil {
		return f.backend, nil
	}
	if f.Config == nil {
		return nil, errors.New("configuration not loaded")
	}

	cfg := f.Config
	value, source, err := secret.Resolve(cfg.Secret, f.Secret, cfg.KeyringKey(), f.OpenKeyring)
	if err != nil {
		if errors.Is(err, secret.ErrNotFound) {
			return nil, ErrNoSecret
		}
		return nil, fmt.Errorf("resolve secret: %w", err)
	}

	var (
		transport = rpc.NewHTTPTransport(cfg.URL, cfg.RequestTimeout, log.With().Str("component", "rpc").Logger())
		creds     = rpc.Credentials{Database: cfg.Database, Login: cfg.Login, Secret: value}
		sessions  = rpc.NewSessions(transport, creds, log.With().Str("component", "sessions").Logger())
		client    = rpc.NewClient(transport, sessions, log.With().Str("component", "rpc").Logger())
	)

	f.backend = &Backend{
		Client:  client,
		Service: query.New(client, printer.Ctx(ctx), log.With().Str("component", "query").Logger()),
		Source:  source,
		secret:  value,
	}
	return f.backend, nil
}

// RecentStore returns the recent records store in the data directory.
func (f *Flags) RecentStore() *jsonfile.RecentStore {
	return jsonfile.NewRecentStore(f.Config.RecentFile(), f.Config.Recent.MaxEntries)
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "scout", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scout")
}
