package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = "https://erp.example.com"
	cfg.Database = "acme"
	cfg.Login = "api@example.com"
	cfg.DataDir = t.TempDir()
	cfg.Commands.Open = ""
	cfg.Views = mergeViews(defaultViews, nil)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, nil)
	return &cfg
}

func fieldErrors(t *testing.T, err error) criterio.FieldErrors {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	return fieldErrs
}

func hasField(errs criterio.FieldErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "missing url", mutate: func(c *Config) { c.URL = "" }, field: "url"},
		{name: "bad scheme", mutate: func(c *Config) { c.URL = "ftp://erp" }, field: "url"},
		{name: "missing host", mutate: func(c *Config) { c.URL = "https://" }, field: "url"},
		{name: "missing database", mutate: func(c *Config) { c.Database = " " }, field: "database"},
		{name: "missing login", mutate: func(c *Config) { c.Login = "" }, field: "login"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -1 }, field: "request_timeout"},
		{name: "negative limit", mutate: func(c *Config) { c.Search.Limit = -1 }, field: "search.limit"},
		{name: "negative recent", mutate: func(c *Config) { c.Recent.MaxEntries = -1 }, field: "recent.max_entries"},
		{name: "no views", mutate: func(c *Config) { c.Views = map[string]View{}; c.DefaultView = "" }, field: "views"},
		{
			name: "bad model",
			mutate: func(c *Config) {
				c.Views["x"] = View{Model: "res partner", Fields: []string{"id"}}
			},
			field: "views.x.model",
		},
		{
			name: "fields without id",
			mutate: func(c *Config) {
				c.Views["x"] = View{Model: "res.partner", Fields: []string{"name"}}
			},
			field: "views.x.fields",
		},
		{
			name: "description not fetched",
			mutate: func(c *Config) {
				c.Views["x"] = View{Model: "res.partner", Fields: []string{"id"}, DescriptionField: "email"}
			},
			field: "views.x.description_field",
		},
		{name: "unknown default view", mutate: func(c *Config) { c.DefaultView = "nope" }, field: "default_view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			errs := fieldErrors(t, cfg.Validate())
			assert.True(t, hasField(errs, tt.field), "expected error on %s, got %v", tt.field, errs)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings["ctrl+o"] = Keybinding{Sh: "notify-send {{ .Name | shq }} {{ .URL }} {{ .Fields.partner_id }}"}
	cfg.Views["partners"] = View{
		Model:         "res.partner",
		Fields:        []string{"id", "name", "email"},
		URL:           "{{ .BaseURL }}/odoo/contacts/{{ .ID }}?email={{ .Fields.email | query }}",
		PreviewFields: []string{"e*", "name"},
	}

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "expected valid config")
}

func TestValidateDeep_InvalidViewURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Views["projects"] = View{
		Model:  "project.project",
		Fields: []string{"id", "name"},
		URL:    "{{ .BaseURL }}/{{ .Fields.user_id }}",
	}

	errs := fieldErrors(t, cfg.ValidateDeep(""))
	require.Len(t, errs, 1)
	assert.Equal(t, "views.projects.url", errs[0].Field)
	assert.Contains(t, errs[0].Err.Error(), "template error")
}

func TestValidateDeep_InvalidPreviewPattern(t *testing.T) {
	cfg := validConfig(t)
	view := cfg.Views["teams"]
	view.PreviewFields = []string{"[name"}
	cfg.Views["teams"] = view

	errs := fieldErrors(t, cfg.ValidateDeep(""))
	require.Len(t, errs, 1)
	assert.Equal(t, "views.teams.preview_fields", errs[0].Field)
	assert.Contains(t, errs[0].Err.Error(), "invalid pattern")
}

func TestValidateDeep_Keybindings(t *testing.T) {
	tests := []struct {
		name    string
		binding Keybinding
		wantErr string
	}{
		{name: "both action and sh", binding: Keybinding{Action: ActionOpen, Sh: "echo"}, wantErr: "cannot have both"},
		{name: "neither action nor sh", binding: Keybinding{Help: "does nothing"}, wantErr: "must have either"},
		{name: "invalid action", binding: Keybinding{Action: "recycle"}, wantErr: "invalid action"},
		{name: "invalid sh template", binding: Keybinding{Sh: "open {{ .Invalid }}"}, wantErr: "template error"},
		{name: "unknown field in sh", binding: Keybinding{Sh: "echo {{ .Fields.nope }}"}, wantErr: "template error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Keybindings["x"] = tt.binding

			errs := fieldErrors(t, cfg.ValidateDeep(""))
			require.Len(t, errs, 1)
			assert.Equal(t, "keybindings.x", errs[0].Field)
			assert.Contains(t, errs[0].Err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeep_ValidActions(t *testing.T) {
	cfg := validConfig(t)
	for _, action := range []string{ActionOpen, ActionCopyURL, ActionCopyName, ActionCopyID, ActionPreview} {
		cfg.Keybindings["k-"+action] = Keybinding{Action: action}
	}
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_OpenCommandNotFound(t *testing.T) {
	cfg := validConfig(t)
	cfg.Commands.Open = "/nonexistent/path/to/open --flag"

	errs := fieldErrors(t, cfg.ValidateDeep(""))
	assert.True(t, hasField(errs, "commands.open"), "expected error about open command")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	cfg := validConfig(t)
	cfg.DataDir = tmpFile

	errs := fieldErrors(t, cfg.ValidateDeep(""))
	assert.True(t, hasField(errs, "data_dir"), "expected error about data dir")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	errs := fieldErrors(t, cfg.ValidateDeep(t.TempDir()))
	assert.True(t, hasField(errs, "config_file"), "expected error about config file being a directory")
}

func TestValidateDeep_IncludesBasicErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.URL = ""
	cfg.Keybindings["x"] = Keybinding{}

	errs := fieldErrors(t, cfg.ValidateDeep(""))
	assert.True(t, hasField(errs, "url"))
	assert.True(t, hasField(errs, "keybindings.x"))
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.secretInFile = true
	cfg.Search.MinLength = 1
	cfg.Views["bare"] = View{Model: "res.partner", Fields: []string{"id"}}

	var categories []string
	for _, w := range cfg.Warnings() {
		categories = append(categories, w.Category)
	}
	assert.ElementsMatch(t, []string{"Credentials", "Search", "Views"}, categories)

	for _, w := range cfg.Warnings() {
		if w.Category == "Views" {
			assert.Equal(t, "bare", w.Item)
			assert.True(t, strings.Contains(w.Message, "url"))
		}
	}
}
