package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/printer"
)

type RecentCmd struct {
	flags *Flags

	// Command-specific flags
	clear bool
}

// NewRecentCmd creates a new recent command
func NewRecentCmd(flags *Flags) *RecentCmd {
	return &RecentCmd{flags: flags}
}

// Register adds the recent command to the application
func (cmd *RecentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "recent",
		Usage:     "View or clear recently opened records",
		UsageText: "scout recent [options]",
		Description: `Lists records opened from the interactive search, newest first.

Use --clear to remove all entries.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear all recent records",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RecentCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	store := cmd.flags.RecentStore()

	if cmd.clear {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clear recent: %w", err)
		}
		p.Successf("Recent records cleared")
		return nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list recent: %w", err)
	}

	if len(entries) == 0 {
		p.Infof("No recent records")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OPENED\tVIEW\tNAME\tURL")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.OpenedAt.Local().Format("2006-01-02 15:04"),
			e.View,
			e.Name,
			e.URL,
		)
	}

	return w.Flush()
}
