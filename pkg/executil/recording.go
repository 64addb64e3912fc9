package executil

import (
	"context"
	"io"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd   string
	Args  []string
	Stdin string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "xdg-open").
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(RecordedCommand{Cmd: cmd, Args: args})
}

// RunInput records the command along with everything read from in.
func (e *RecordingExecutor) RunInput(ctx context.Context, in io.Reader, cmd string, args ...string) ([]byte, error) {
	var stdin string
	if in != nil {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		stdin = string(data)
	}
	return e.record(RecordedCommand{Cmd: cmd, Args: args, Stdin: stdin})
}

// Shell records the script as `sh -c <script>`.
func (e *RecordingExecutor) Shell(ctx context.Context, script string) ([]byte, error) {
	return e.record(RecordedCommand{Cmd: "sh", Args: []string{"-c", script}})
}

func (e *RecordingExecutor) record(rc RecordedCommand) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, rc)

	var out []byte
	var err error

	if e.Outputs != nil {
		out = e.Outputs[rc.Cmd]
	}
	if e.Errors != nil {
		err = e.Errors[rc.Cmd]
	}

	return out, err
}

// Recorded returns a copy of the recorded commands.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RecordedCommand(nil), e.Commands...)
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
