package executil

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor(t *testing.T) {
	ctx := context.Background()
	e := &RealExecutor{}

	out, err := e.Shell(ctx, "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out, err = e.RunInput(ctx, strings.NewReader("piped"), "cat")
	require.NoError(t, err)
	assert.Equal(t, "piped", string(out))

	_, err = e.Run(ctx, "sh", "-c", "exit 3")
	assert.ErrorContains(t, err, "exec sh")
}

func TestRecordingExecutor(t *testing.T) {
	ctx := context.Background()
	e := &RecordingExecutor{
		Outputs: map[string][]byte{"xdg-open": []byte("ok")},
		Errors:  map[string]error{"wl-copy": errors.New("no display")},
	}

	out, err := e.Run(ctx, "xdg-open", "https://erp.example.com")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))

	_, err = e.RunInput(ctx, strings.NewReader("Website"), "wl-copy")
	assert.EqualError(t, err, "no display")

	_, err = e.Shell(ctx, "echo hi")
	require.NoError(t, err)

	assert.Equal(t, []RecordedCommand{
		{Cmd: "xdg-open", Args: []string{"https://erp.example.com"}},
		{Cmd: "wl-copy", Stdin: "Website"},
		{Cmd: "sh", Args: []string{"-c", "echo hi"}},
	}, e.Recorded())

	e.Reset()
	assert.Empty(t, e.Recorded())
}
