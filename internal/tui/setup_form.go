package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/scout/internal/styles"
)

// ErrSetupCancelled is returned when the user aborts the setup form.
var ErrSetupCancelled = errors.New("setup cancelled")

// SetupValues are the connection settings collected by `scout init`.
type SetupValues struct {
	URL      string
	Database string
	Login    string
	Secret   string

	// SaveToKeyring stores Secret in the OS keyring instead of the
	// config file.
	SaveToKeyring bool
}

// Complete reports whether every required value is already known, in
// which case the form can be skipped.
func (v SetupValues) Complete() bool {
	return validateServerURL(v.URL) == nil && v.Database != "" && v.Login != ""
}

// SetupForm wraps a huh.Form prompting for connection settings.
type SetupForm struct {
	form   *huh.Form
	values SetupValues
}

// NewSetupForm creates a form prefilled with values. The keyring toggle
// is only offered when keyring is true.
func NewSetupForm(values SetupValues, keyring bool) *SetupForm {
	f := &SetupForm{values: values}
	if keyring && values.Secret == "" {
		f.values.SaveToKeyring = true
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Server URL").
			Placeholder("https://erp.example.com").
			Value(&f.values.URL).
			Validate(validateServerURL),
		huh.NewInput().
			Title("Database").
			Value(&f.values.Database).
			Validate(required("database")),
		huh.NewInput().
			Title("Login").
			Placeholder("you@example.com").
			Value(&f.values.Login).
			Validate(required("login")),
		huh.NewInput().
			Title("Password or API key").
			Description("Leave blank to use SCOUT_SECRET").
			EchoMode(huh.EchoModePassword).
			Value(&f.values.Secret),
	}

	if keyring {
		fields = append(fields, huh.NewConfirm().
			Title("Store the secret in the OS keyring?").
			Affirmative("Keyring").
			Negative("Config file").
			Value(&f.values.SaveToKeyring))
	} else {
		f.values.SaveToKeyring = false
	}

	f.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme())
	return f
}

// Form returns the underlying huh.Form.
func (f *SetupForm) Form() *huh.Form {
	return f.form
}

// Run shows the form and returns the collected values.
func (f *SetupForm) Run() (SetupValues, error) {
	if err := f.form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return SetupValues{}, ErrSetupCancelled
		}
		return SetupValues{}, err
	}
	return f.Values(), nil
}

// Values returns the current form values with surrounding whitespace
// removed.
func (f *SetupForm) Values() SetupValues {
	v := f.values
	v.URL = strings.TrimRight(strings.TrimSpace(v.URL), "/")
	v.Database = strings.TrimSpace(v.Database)
	v.Login = strings.TrimSpace(v.Login)
	if v.Secret == "" {
		v.SaveToKeyring = false
	}
	return v
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validateServerURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("server URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}
