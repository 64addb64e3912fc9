package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{in: "https://erp.example.com"},
		{in: "http://localhost:8069/"},
		{in: "  ", wantErr: "server URL is required"},
		{in: "erp.example.com", wantErr: "URL must start with http:// or https://"},
		{in: "ftp://erp.example.com", wantErr: "URL must start with http:// or https://"},
		{in: "https://", wantErr: "URL has no host"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateServerURL(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestSetupValues_Complete(t *testing.T) {
	full := SetupValues{URL: "https://erp.example.com", Database: "acme", Login: "api@example.com"}
	assert.True(t, full.Complete())

	missing := full
	missing.Database = ""
	assert.False(t, missing.Complete())

	badURL := full
	badURL.URL = "erp.example.com"
	assert.False(t, badURL.Complete())
}

func TestNewSetupForm(t *testing.T) {
	t.Run("prefills values", func(t *testing.T) {
		form := NewSetupForm(SetupValues{
			URL:      " https://erp.example.com/ ",
			Database: "acme",
			Login:    " api@example.com",
		}, false)
		require.NotNil(t, form.Form())

		got := form.Values()
		assert.Equal(t, "https://erp.example.com", got.URL)
		assert.Equal(t, "acme", got.Database)
		assert.Equal(t, "api@example.com", got.Login)
		assert.False(t, got.SaveToKeyring)
	})

	t.Run("keyring defaults on when available", func(t *testing.T) {
		form := NewSetupForm(SetupValues{}, true)
		assert.True(t, form.values.SaveToKeyring)

		form.values.Secret = "hunter2"
		assert.True(t, form.Values().SaveToKeyring)
	})

	t.Run("no keyring without a secret", func(t *testing.T) {
		form := NewSetupForm(SetupValues{}, true)
		assert.False(t, form.Values().SaveToKeyring)
	})

	t.Run("keyring unavailable", func(t *testing.T) {
		form := NewSetupForm(SetupValues{Secret: "hunter2", SaveToKeyring: true}, false)
		assert.False(t, form.Values().SaveToKeyring)
	})
}
