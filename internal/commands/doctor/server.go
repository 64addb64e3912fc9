package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/internal/rpc"
)

// ServerCheck verifies the backend is reachable and accepts the
// credentials.
type ServerCheck struct {
	client *rpc.Client
}

// NewServerCheck creates a backend check. A nil client reports the check
// as skipped.
func NewServerCheck(client *rpc.Client) *ServerCheck {
	return &ServerCheck{client: client}
}

func (c *ServerCheck) Name() string {
	return "Server"
}

func (c *ServerCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.client == nil {
		result.add(StatusWarn, "Skipped", "no credentials to connect with")
		return result
	}

	v, err := c.client.Version(ctx)
	if err != nil {
		result.add(StatusFail, "Reachable", query.Message(err))
		return result
	}
	result.add(StatusPass, "Reachable", "server "+v.ServerVersion)

	uid, err := c.client.Sessions().Session(ctx)
	if err != nil {
		result.add(StatusFail, "Login", query.Message(err))
		return result
	}

	creds := c.client.Sessions().Credentials()
	result.add(StatusPass, "Login", fmt.Sprintf("%s on %s (uid %d)", creds.Login, creds.Database, uid))
	return result
}
