package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/scout/internal/core/validate"
	"github.com/hay-kot/scout/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// RecordTemplateData defines the fields available to view URL templates and
// keybinding shell templates.
type RecordTemplateData struct {
	BaseURL string
	View    string
	Model   string
	ID      int64
	Name    string
	// URL is the rendered deep link. Empty while the link itself is being
	// rendered.
	URL    string
	Fields map[string]string
}

// Validate checks the configuration for errors that make scout unusable.
func (c *Config) Validate() error {
	var errs criterio.FieldErrors
	add := func(field string, err error) {
		errs = append(errs, criterio.FieldErrors{{Field: field, Err: err}}...)
	}

	if c.URL == "" {
		add("url", errors.New("is required"))
	} else if err := validateBaseURL(c.URL); err != nil {
		add("url", err)
	}
	if strings.TrimSpace(c.Database) == "" {
		add("database", errors.New("is required"))
	}
	if strings.TrimSpace(c.Login) == "" {
		add("login", errors.New("is required"))
	}
	if c.RequestTimeout < 0 {
		add("request_timeout", errors.New("must not be negative"))
	}
	if c.Search.Debounce < 0 {
		add("search.debounce", errors.New("must not be negative"))
	}
	if c.Search.MinLength < 0 {
		add("search.min_length", errors.New("must not be negative"))
	}
	if c.Search.Limit < 0 {
		add("search.limit", errors.New("must not be negative"))
	}
	if c.Recent.MaxEntries < 0 {
		add("recent.max_entries", errors.New("must not be negative"))
	}

	if len(c.Views) == 0 {
		add("views", errors.New("at least one view is required"))
	}
	for _, name := range sortedKeys(c.Views) {
		view := c.Views[name]
		field := "views." + name
		if err := validate.Identifier("model", view.Model); err != nil {
			add(field+".model", err)
		}
		if !slices.Contains(view.Fields, "id") {
			add(field+".fields", errors.New("must include id"))
		}
		for _, f := range view.Fields {
			if err := validate.Identifier("field", f); err != nil {
				add(field+".fields", err)
			}
		}
		if view.DescriptionField != "" && !slices.Contains(view.Fields, view.DescriptionField) {
			add(field+".description_field", fmt.Errorf("%q is not in fields", view.DescriptionField))
		}
	}

	if c.DefaultView != "" {
		if _, ok := c.Views[c.DefaultView]; !ok {
			add("default_view", fmt.Errorf("unknown view %q", c.DefaultView))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks template syntax, glob patterns, and file access.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrors

	if err := c.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	errs = append(errs, c.validateFileAccess(configPath)...)
	errs = append(errs, c.validateViews()...)
	errs = append(errs, c.validateKeybindings()...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.secretInFile {
		warnings = append(warnings, ValidationWarning{
			Category: "Credentials",
			Item:     "secret",
			Message:  "secret is stored in plain text; run `scout login --save-secret` to move it to the keyring",
		})
	}

	if c.Search.MinLength == 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "Search",
			Item:     "search.min_length",
			Message:  "every keystroke queries the server",
		})
	}

	for _, name := range sortedKeys(c.Views) {
		if c.Views[name].URL == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Views",
				Item:     name,
				Message:  "no url template; open and copy-url are unavailable",
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and the open command.
func (c *Config) validateFileAccess(configPath string) criterio.FieldErrors {
	var errs criterio.FieldErrors

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.IsDir() {
				errs = append(errs, criterio.FieldErrors{{
					Field: "config_file",
					Err:   fmt.Errorf("%s is a directory, not a file", configPath),
				}}...)
			}
		} else if !os.IsNotExist(err) {
			errs = append(errs, criterio.FieldErrors{{
				Field: "config_file",
				Err:   fmt.Errorf("cannot access %s: %w", configPath, err),
			}}...)
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil {
			if !info.IsDir() {
				errs = append(errs, criterio.FieldErrors{{
					Field: "data_dir",
					Err:   fmt.Errorf("%s exists but is not a directory", c.DataDir),
				}}...)
			}
		} else if !os.IsNotExist(err) {
			errs = append(errs, criterio.FieldErrors{{
				Field: "data_dir",
				Err:   fmt.Errorf("cannot access %s: %w", c.DataDir, err),
			}}...)
		}
	}

	if c.Commands.Open != "" {
		bin := strings.Fields(c.Commands.Open)[0]
		if _, err := exec.LookPath(bin); err != nil {
			errs = append(errs, criterio.FieldErrors{{
				Field: "commands.open",
				Err:   fmt.Errorf("executable not found: %s", bin),
			}}...)
		}
	}

	return errs
}

// validateViews checks url templates and preview patterns.
func (c *Config) validateViews() criterio.FieldErrors {
	var errs criterio.FieldErrors

	for _, name := range sortedKeys(c.Views) {
		view := c.Views[name]
		field := "views." + name

		if view.URL != "" {
			if err := validateTemplate(view.URL, sampleData(view)); err != nil {
				errs = append(errs, criterio.FieldErrors{{
					Field: field + ".url",
					Err:   fmt.Errorf("template error: %w", err),
				}}...)
			}
		}

		for _, pattern := range view.PreviewFields {
			if !doublestar.ValidatePattern(pattern) {
				errs = append(errs, criterio.FieldErrors{{
					Field: field + ".preview_fields",
					Err:   fmt.Errorf("invalid pattern %q", pattern),
				}}...)
			}
		}
	}

	return errs
}

// validateKeybindings checks keybinding configuration.
func (c *Config) validateKeybindings() criterio.FieldErrors {
	var errs criterio.FieldErrors

	// Keybindings apply to every view; accept any field some view fetches.
	var all View
	for _, view := range c.Views {
		all.Fields = append(all.Fields, view.Fields...)
	}
	allFields := sampleData(all)

	keys := sortedKeys(c.Keybindings)
	for _, key := range keys {
		kb := c.Keybindings[key]
		field := fmt.Sprintf("keybindings.%s", key)

		switch {
		case kb.Action == "" && kb.Sh == "":
			errs = append(errs, criterio.FieldErrors{{Field: field, Err: errors.New("must have either action or sh")}}...)
			continue
		case kb.Action != "" && kb.Sh != "":
			errs = append(errs, criterio.FieldErrors{{Field: field, Err: errors.New("cannot have both action and sh")}}...)
			continue
		}

		if kb.Action != "" && !isValidAction(kb.Action) {
			errs = append(errs, criterio.FieldErrors{{Field: field, Err: fmt.Errorf("invalid action %q", kb.Action)}}...)
		}

		if kb.Sh != "" {
			if err := validateTemplate(kb.Sh, allFields); err != nil {
				errs = append(errs, criterio.FieldErrors{{Field: field, Err: fmt.Errorf("template error in sh: %w", err)}}...)
			}
		}
	}

	return errs
}

func isValidAction(action string) bool {
	switch action {
	case ActionOpen, ActionCopyURL, ActionCopyName, ActionCopyID, ActionPreview:
		return true
	default:
		return false
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// sampleData returns template data carrying every field the view fetches,
// so templates referencing .Fields.<name> render during validation.
func sampleData(view View) RecordTemplateData {
	fields := make(map[string]string, len(view.Fields))
	for _, f := range view.Fields {
		fields[f] = ""
	}
	return RecordTemplateData{Fields: fields}
}

// validateTemplate checks if a template string is valid.
func validateTemplate(tmplStr string, data any) error {
	return tmpl.Check(tmplStr, data)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
