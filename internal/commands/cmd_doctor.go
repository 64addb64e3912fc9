package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/commands/doctor"
	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/rpc"
)

type DoctorCmd struct {
	flags  *Flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your scout setup",
		UsageText:   "scout doctor [options]",
		Description: "Checks the configuration, where the secret comes from, whether the server accepts it, and the local data files.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "reset local data files that cannot be read",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	// The server check only runs when the config is usable and a secret
	// resolves; the other checks report why it was skipped.
	var client *rpc.Client
	if cfg.Validate() == nil {
		if backend, err := cmd.flags.Connect(ctx); err == nil {
			client = backend.Client
		} else {
			log.Debug().Err(err).Msg("doctor: no backend")
		}
	}

	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewCredentialsCheck(cfg.Secret, cmd.flags.Secret, cfg.KeyringKey(), cmd.flags.OpenKeyring),
		doctor.NewServerCheck(client),
		doctor.NewRecentCheck(cmd.flags.RecentStore(), cmd.fix),
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.format == "json" {
		return writeDoctorJSON(c.Root().Writer, results)
	}

	return writeDoctorText(printer.Ctx(ctx), results)
}

type summaryJSON struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Fixable int `json:"fixable"`
}

func writeDoctorJSON(w io.Writer, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed, Fixable: doctor.CountFixable(results)},
		Checks:  results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDoctorText(p *printer.Printer, results []doctor.Result) error {
	for _, result := range results {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("Summary: %d passed, %d warnings, %d failed", passed, warned, failed)

	if n := doctor.CountFixable(results); n > 0 {
		p.Infof("%d issue(s) can be fixed with 'scout doctor --fix'", n)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
