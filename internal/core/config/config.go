// Package config handles configuration loading and validation for scout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionOpen     = "open"
	ActionCopyURL  = "copy-url"
	ActionCopyName = "copy-name"
	ActionCopyID   = "copy-id"
	ActionPreview  = "preview"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"enter":  {Action: ActionOpen, Help: "open"},
	"ctrl+y": {Action: ActionCopyURL, Help: "copy url"},
	"ctrl+n": {Action: ActionCopyName, Help: "copy name"},
	"ctrl+p": {Action: ActionPreview, Help: "preview"},
}

// defaultViews are the record types scout knows out of the box.
var defaultViews = map[string]View{
	"projects": {
		Title:            "Projects",
		Model:            "project.project",
		Fields:           []string{"id", "name", "display_name", "partner_id", "user_id"},
		DescriptionField: "partner_id",
		URL:              "{{ .BaseURL }}/odoo/project/{{ .ID }}/tasks",
		PreviewFields:    []string{"name", "partner_id", "user_id"},
	},
	"teams": {
		Title:            "Helpdesk Teams",
		Model:            "helpdesk.team",
		Fields:           []string{"id", "name", "display_name", "company_id"},
		DescriptionField: "company_id",
		URL:              "{{ .BaseURL }}/odoo/helpdesk/{{ .ID }}",
		PreviewFields:    []string{"*"},
	},
}

// Config holds the application configuration.
type Config struct {
	URL            string                `yaml:"url"`
	Database       string                `yaml:"database"`
	Login          string                `yaml:"login"`
	Secret         string                `yaml:"secret"`
	RequestTimeout time.Duration         `yaml:"request_timeout"`
	Search         SearchConfig          `yaml:"search"`
	DefaultView    string                `yaml:"default_view"`
	Views          map[string]View       `yaml:"views"`
	Keybindings    map[string]Keybinding `yaml:"keybindings"`
	Commands       Commands              `yaml:"commands"`
	Recent         RecentConfig          `yaml:"recent"`
	DataDir        string                `yaml:"-"` // set by caller, not from config file

	secretInFile bool
}

// SearchConfig tunes the incremental search.
type SearchConfig struct {
	Debounce  time.Duration `yaml:"debounce"`
	MinLength int           `yaml:"min_length"`
	Limit     int           `yaml:"limit"`
}

// View describes one searchable record type.
type View struct {
	Title            string   `yaml:"title"`
	Model            string   `yaml:"model"`
	Fields           []string `yaml:"fields"`
	DescriptionField string   `yaml:"description_field"`
	// URL is a template rendered with RecordTemplateData to build the
	// record's deep link.
	URL string `yaml:"url"`
	// PreviewFields are doublestar patterns selecting the fields shown in
	// the preview.
	PreviewFields []string `yaml:"preview_fields"`
}

// Keybinding defines a TUI keybinding action.
type Keybinding struct {
	Action string `yaml:"action"` // built-in action name
	Help   string `yaml:"help"`   // help text shown in TUI
	Sh     string `yaml:"sh"`     // shell command template
	Exit   bool   `yaml:"exit"`   // quit the TUI after the action
}

// Commands defines the external commands scout shells out to.
type Commands struct {
	Open string `yaml:"open"`
	// Copy receives the text on stdin. Empty uses the system clipboard.
	Copy string `yaml:"copy"`
}

// RecentConfig controls the recently-opened history.
type RecentConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Debounce:  300 * time.Millisecond,
			MinLength: 2,
			Limit:     100,
		},
		DefaultView: "projects",
		Views:       map[string]View{},
		Keybindings: map[string]Keybinding{},
		Commands: Commands{
			Open: defaultOpenCommand(),
		},
		Recent: RecentConfig{
			MaxEntries: 50,
		},
	}
}

func defaultOpenCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Load reads and validates configuration from the given path and sets the
// data directory. A missing file yields the defaults, which lack the
// connection settings and so fail validation.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for commands that report problems
// themselves.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
			cfg.secretInFile = cfg.Secret != ""
		}
	}

	cfg.Views = mergeViews(defaultViews, cfg.Views)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Search.Debounce == 0 {
		c.Search.Debounce = defaults.Search.Debounce
	}
	if c.Search.MinLength == 0 {
		c.Search.MinLength = defaults.Search.MinLength
	}
	if c.Search.Limit == 0 {
		c.Search.Limit = defaults.Search.Limit
	}
	if c.Commands.Open == "" {
		c.Commands.Open = defaults.Commands.Open
	}
	if c.DefaultView == "" {
		c.DefaultView = defaults.DefaultView
	}
}

// mergeViews merges user views into defaults. A user view replaces the
// default of the same name entirely.
func mergeViews(defaults, user map[string]View) map[string]View {
	result := make(map[string]View, len(defaults)+len(user))
	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}
	return result
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	// Copy defaults first
	for k, v := range defaults {
		result[k] = v
	}

	// Override with user config
	for k, v := range user {
		result[k] = v
	}

	return result
}

// RecentFile returns the path to the recently-opened records file.
func (c *Config) RecentFile() string {
	return filepath.Join(c.DataDir, "recent.json")
}

// SecretInFile reports whether the secret was read from the config file.
func (c *Config) SecretInFile() bool {
	return c.secretInFile
}

// KeyringKey identifies the credentials in the OS keyring.
func (c *Config) KeyringKey() string {
	return c.Login + "@" + c.Database + "/" + c.URL
}

// File is the subset of Config written by `scout init`.
type File struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Login    string `yaml:"login"`
	Secret   string `yaml:"secret,omitempty"`
}

// Write serialises f to path, creating parent directories. The file is
// private to the user since it may hold a secret.
func (f File) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
