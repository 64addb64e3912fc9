package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/commands"
	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/secret"
	"github.com/hay-kot/scout/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{OpenKeyring: secret.Open}
	)

	var deferredLogs *utils.DeferredWriter

	app := &cli.Command{
		Name:      "scout",
		Usage:     "Search and open Odoo records from the terminal",
		UsageText: "scout [global options] command [command options]",
		Description: `Scout searches records on an Odoo server as you type and opens, copies or
previews the selected one.

Run 'scout init' to create a config file.
Run 'scout' with no arguments to search the default view.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SCOUT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("SCOUT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SCOUT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SCOUT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "password or API key, used when the config file has none",
				Sources:     cli.EnvVars("SCOUT_SECRET"),
				Destination: &flags.Secret,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			sub := c.Args().First()

			// In TUI mode, buffer logs to display after exit
			var deferred io.Writer
			if sub == "" || sub == "tui" {
				deferredLogs = &utils.DeferredWriter{}
				deferred = deferredLogs
			}

			if err := setupLogger(flags.LogLevel, flags.LogFile, deferred); err != nil {
				return ctx, err
			}

			var (
				cfg *config.Config
				err error
			)
			switch sub {
			case "init":
				return ctx, nil
			case "config", "doctor":
				// these report validation problems themselves
				cfg, err = config.Read(flags.ConfigPath, flags.DataDir)
			default:
				cfg, err = config.Load(flags.ConfigPath, flags.DataDir)
			}
			if err != nil {
				return ctx, fmt.Errorf("load config %s: %w", flags.ConfigPath, err)
			}
			flags.Config = cfg

			return ctx, nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = tuiCmd.Register(app)
	app = commands.NewSearchCmd(flags).Register(app)
	app = commands.NewViewsCmd(flags).Register(app)
	app = commands.NewRecentCmd(flags).Register(app)
	app = commands.NewLoginCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'scout --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	// Flush deferred logs to console after TUI exits
	if deferredLogs != nil {
		if err := deferredLogs.Flush(zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string, deferred io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if deferred != nil {
			// TUI mode with a log file: write to the file and buffer for after exit
			output = io.MultiWriter(file, deferred)
		} else {
			output = io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, file)
		}
	} else if deferred != nil {
		output = deferred
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
