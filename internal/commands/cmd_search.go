package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/scout/internal/core/record"
	"github.com/hay-kot/scout/internal/core/validate"
	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/query"
)

// Output formats for record listings.
const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

type SearchCmd struct {
	flags  *Flags
	format string
	limit  int
}

// NewSearchCmd creates the search and ls commands.
func NewSearchCmd(flags *Flags) *SearchCmd {
	return &SearchCmd{flags: flags}
}

func (cmd *SearchCmd) formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "format",
		Aliases:     []string{"f"},
		Usage:       "output format (auto, table, json); auto prints a table on a terminal and JSON lines otherwise",
		Value:       formatAuto,
		Destination: &cmd.format,
	}
}

// Register adds the search and ls commands to the application.
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "search",
			Usage:     "Search a view by name",
			UsageText: "scout search [options] <view> <text...>",
			Description: `Runs a single case-insensitive name search against a view and prints the matches.

Failures are reported on stderr and exit with status 1.`,
			Flags:  []cli.Flag{cmd.formatFlag()},
			Action: cmd.runSearch,
		},
		&cli.Command{
			Name:        "ls",
			Usage:       "List the records of a view",
			UsageText:   "scout ls [options] <view>",
			Description: "Lists records of a view without filtering, capped by --limit.",
			Flags: []cli.Flag{
				cmd.formatFlag(),
				&cli.IntFlag{
					Name:        "limit",
					Aliases:     []string{"n"},
					Usage:       "maximum number of records (defaults to search.limit)",
					Destination: &cmd.limit,
				},
			},
			Action: cmd.runList,
		},
	)

	return app
}

func (cmd *SearchCmd) runSearch(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}

	text := strings.Join(c.Args().Slice()[1:], " ")
	if err := validate.SearchText(text); err != nil {
		return err
	}

	return cmd.query(ctx, c, func(svc *query.Service, view record.View) []query.Record {
		return svc.SearchByName(ctx, view.Model, strings.TrimSpace(text), view.Fields)
	})
}

func (cmd *SearchCmd) runList(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}

	limit := cmd.limit
	if limit <= 0 {
		limit = cmd.flags.Config.Search.Limit
	}

	return cmd.query(ctx, c, func(svc *query.Service, view record.View) []query.Record {
		return svc.ListAll(ctx, view.Model, view.Fields, limit)
	})
}

func (cmd *SearchCmd) query(ctx context.Context, c *cli.Command, run func(*query.Service, record.View) []query.Record) error {
	view, err := record.Lookup(cmd.flags.Config, c.Args().First())
	if err != nil {
		return err
	}

	format, err := resolveFormat(cmd.format, c.Root().Writer)
	if err != nil {
		return err
	}

	backend, err := cmd.flags.Connect(ctx)
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	failed := false
	svc := backend.Service.WithNotifier(query.NotifierFunc(func(n query.Notification) {
		failed = true
		p.Notify(n)
	}))

	records := run(svc, view)
	if failed {
		return cli.Exit("", 1)
	}

	if len(records) == 0 && format == formatTable {
		p.Infof("No records found")
		return nil
	}

	return writeRecords(c.Root().Writer, format, view, records)
}

// resolveFormat turns "auto" into table or json depending on whether w is
// a terminal.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatTable, formatJSON:
		return format, nil
	case formatAuto, "":
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, table or json)", format)
	}
}

// recordRow is one line of JSON output.
type recordRow struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Fields      query.Record `json:"fields"`
}

func writeRecords(w io.Writer, format string, view record.View, records []query.Record) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		for _, r := range records {
			id, _ := r.ID()
			link, _ := view.Link(r)
			row := recordRow{
				ID:          id,
				Name:        view.Label(r),
				Description: view.Description(r),
				URL:         link,
				Fields:      r,
			}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tURL")
	for _, r := range records {
		id, _ := r.ID()
		link, _ := view.Link(r)
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", id, view.Label(r), view.Description(r), link)
	}
	return tw.Flush()
}
