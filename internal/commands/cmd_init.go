package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/secret"
	"github.com/hay-kot/scout/internal/styles"
	"github.com/hay-kot/scout/internal/tui"
)

type InitCmd struct {
	flags *Flags

	url      string
	database string
	login    string
	force    bool
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create the config file",
		UsageText: "scout init [options]",
		Description: `Prompts for the server URL, database, login and secret and writes the
config file. Values given as flags are prefilled.

Without a terminal every value must be given as a flag; the secret is read
from SCOUT_SECRET and stored in the OS keyring when one is available.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "server URL", Destination: &cmd.url},
			&cli.StringFlag{Name: "database", Aliases: []string{"db"}, Usage: "database name", Destination: &cmd.database},
			&cli.StringFlag{Name: "login", Usage: "login (user name or email)", Destination: &cmd.login},
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing config file", Destination: &cmd.force},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	values := tui.SetupValues{
		URL:      cmd.url,
		Database: cmd.database,
		Login:    cmd.login,
		Secret:   cmd.flags.Secret,
	}
	keyring := secret.Available()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintln(c.Root().Writer, styles.BannerStyle.Render(styles.Banner))
		_, _ = fmt.Fprintln(c.Root().Writer)

		var err error
		values, err = tui.NewSetupForm(values, keyring).Run()
		if err != nil {
			if errors.Is(err, tui.ErrSetupCancelled) {
				p.Infof("Cancelled")
				return nil
			}
			return err
		}
	} else {
		if !values.Complete() {
			return errors.New("not a terminal: --url, --database and --login are required")
		}
		values.SaveToKeyring = keyring && values.Secret != ""
		if !values.SaveToKeyring {
			values.Secret = ""
		}
	}

	return cmd.write(p, path, values)
}

func (cmd *InitCmd) write(p *printer.Printer, path string, values tui.SetupValues) error {
	file := config.File{
		URL:      values.URL,
		Database: values.Database,
		Login:    values.Login,
	}

	switch {
	case values.Secret == "":
	case values.SaveToKeyring:
		key := (&config.Config{URL: values.URL, Database: values.Database, Login: values.Login}).KeyringKey()
		store, err := cmd.flags.OpenKeyring()
		if err != nil {
			return fmt.Errorf("open keyring: %w", err)
		}
		if err := store.Set(key, values.Secret); err != nil {
			return err
		}
		p.Successf("Saved secret to the keyring")
	default:
		file.Secret = values.Secret
	}

	if err := file.Write(path); err != nil {
		return err
	}

	p.Successf("Wrote %s", path)
	if values.Secret == "" {
		p.Infof("No secret stored: export SCOUT_SECRET before running scout")
	}
	p.Printf("Run 'scout login' to check the connection")
	return nil
}
