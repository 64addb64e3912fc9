package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/core/record"
	"github.com/hay-kot/scout/internal/tui"
	"github.com/hay-kot/scout/pkg/executil"
)

type TuiCmd struct {
	flags *Flags
	view  string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "view",
			Aliases:     []string{"v"},
			Usage:       "view to search (defaults to default_view)",
			Sources:     cli.EnvVars("SCOUT_VIEW"),
			Destination: &cmd.view,
		},
	}
}

// Register adds the explicit tui command to the application. It reads
// --view from the root flags.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Search records interactively",
		UsageText:   "scout tui [--view name]",
		Description: "Opens the interactive search for a view. This is also what 'scout' runs with no arguments.",
		Action:      cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	name := cmd.view
	if name == "" {
		name = cfg.DefaultView
	}
	view, err := record.Lookup(cfg, name)
	if err != nil {
		return err
	}

	backend, err := cmd.flags.Connect(ctx)
	if err != nil {
		return err
	}

	handler := tui.NewKeybindingHandler(cfg.Keybindings, cfg.Commands, &executil.RealExecutor{}, cmd.flags.RecentStore())

	m := tui.New(tui.Options{
		View:      view,
		Service:   backend.Service,
		Handler:   handler,
		Debounce:  cfg.Search.Debounce,
		MinLength: cfg.Search.MinLength,
		Limit:     cfg.Search.Limit,
		Logger:    log.With().Str("component", "tui").Str("view", view.Name).Logger(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
