package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/printer"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate configuration file",
				UsageText: "scout config validate [options]",
				Description: `Validates the configuration file: connection settings, view models and
fields, url and shell templates, preview field patterns and the open command.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	switch cmd.format {
	case "json":
		return writeValidationJSON(c.Root().Writer, err, warnings)
	case "text", "":
		return writeValidationText(printer.Ctx(ctx), err, warnings)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}
}

type validationReport struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeValidationJSON(w io.Writer, validationErr error, warnings []config.ValidationWarning) error {
	report := validationReport{
		Valid:    validationErr == nil,
		Warnings: warnings,
	}
	for _, fe := range extractFieldErrors(validationErr) {
		report.Errors = append(report.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// extractFieldErrors extracts field errors from a validation error.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func writeValidationText(p *printer.Printer, validationErr error, warnings []config.ValidationWarning) error {
	fieldErrs := extractFieldErrors(validationErr)

	if len(fieldErrs) > 0 {
		p.Section("Errors")
		for _, fe := range fieldErrs {
			label := fe.Field
			if label == "" {
				label = "config"
			}
			p.FailItem(label, fe.Err.Error())
		}
		p.Printf("")
	}

	if len(warnings) > 0 {
		p.Section("Warnings")
		for _, w := range warnings {
			label := w.Category
			if w.Item != "" {
				label += " (" + w.Item + ")"
			}
			p.WarnItem(label, w.Message)
		}
		p.Printf("")
	}

	if validationErr == nil {
		if len(warnings) > 0 {
			p.Successf("Configuration is valid (%d warning(s))", len(warnings))
		} else {
			p.Successf("Configuration is valid")
		}
		return nil
	}

	p.Errorf("%d error(s), %d warning(s)", len(fieldErrs), len(warnings))
	return cli.Exit("", 1)
}
