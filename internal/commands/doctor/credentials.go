package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/scout/internal/secret"
)

// CredentialsCheck reports where the secret is resolved from.
type CredentialsCheck struct {
	configured string
	env        string
	key        string
	open       secret.Opener
}

// NewCredentialsCheck creates a check resolving the secret the same way
// the backend connection does.
func NewCredentialsCheck(configured, env, key string, open secret.Opener) *CredentialsCheck {
	return &CredentialsCheck{configured: configured, env: env, key: key, open: open}
}

func (c *CredentialsCheck) Name() string {
	return "Credentials"
}

func (c *CredentialsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	_, source, err := secret.Resolve(c.configured, c.env, c.key, c.open)
	switch {
	case errors.Is(err, secret.ErrNotFound):
		result.add(StatusFail, "Secret", "not set; run 'scout login --save-secret' or set SCOUT_SECRET")
	case err != nil:
		result.add(StatusFail, "Keyring", err.Error())
	case source == secret.SourceConfig:
		result.add(StatusWarn, "Secret", "read from the config file in plaintext")
	default:
		result.add(StatusPass, "Secret", "read from "+string(source))
	}

	return result
}
