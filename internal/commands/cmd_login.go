package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/scout/internal/printer"
	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/internal/secret"
)

type LoginCmd struct {
	flags      *Flags
	saveSecret bool
}

// NewLoginCmd creates a new login command
func NewLoginCmd(flags *Flags) *LoginCmd {
	return &LoginCmd{flags: flags}
}

// Register adds the login command to the application
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "login",
		Usage:     "Check the configured credentials",
		UsageText: "scout login [options]",
		Description: `Authenticates against the configured server and prints the user id and
server version.

With --save-secret the secret in use (from SCOUT_SECRET or the config file)
is stored in the OS keyring so it can be removed from the environment.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "save-secret",
				Usage:       "store the secret in the OS keyring after a successful login",
				Destination: &cmd.saveSecret,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LoginCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg := cmd.flags.Config

	backend, err := cmd.flags.Connect(ctx)
	if err != nil {
		return err
	}

	version, err := backend.Client.Version(ctx)
	if err != nil {
		return fmt.Errorf("%s: %s", cfg.URL, query.Message(err))
	}

	uid, err := backend.Client.Sessions().Session(ctx)
	if err != nil {
		return fmt.Errorf("login as %s: %s", cfg.Login, query.Message(err))
	}

	p.Successf("Logged in as %s on %s (uid %d)", cfg.Login, cfg.Database, uid)
	p.Printf("  server   %s", version.ServerVersion)
	p.Printf("  secret   %s", backend.Source)

	if !cmd.saveSecret {
		return nil
	}
	if backend.Source == secret.SourceKeyring {
		p.Infof("Secret is already stored in the keyring")
		return nil
	}

	store, err := cmd.flags.OpenKeyring()
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}
	if err := store.Set(cfg.KeyringKey(), backend.secret); err != nil {
		return err
	}

	p.Successf("Saved secret to the keyring")
	if backend.Source == secret.SourceConfig {
		p.Warnf("The secret is still in %s; remove it to rely on the keyring", cmd.flags.ConfigPath)
	}
	return nil
}
