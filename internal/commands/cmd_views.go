package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/core/record"
)

type ViewsCmd struct {
	flags *Flags
}

// NewViewsCmd creates a new views command
func NewViewsCmd(flags *Flags) *ViewsCmd {
	return &ViewsCmd{flags: flags}
}

// Register adds the views command to the application
func (cmd *ViewsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "views",
		Usage:       "List configured views",
		UsageText:   "scout views",
		Description: "Displays every view with its model and fields. The default view is marked with *.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ViewsCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tMODEL\tFIELDS")
	for _, v := range record.Views(cfg) {
		name := v.Name
		if name == cfg.DefaultView {
			name += " *"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, v.DisplayTitle(), v.Model, strings.Join(v.Fields, ","))
	}

	return w.Flush()
}
