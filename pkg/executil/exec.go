// Package executil provides shell execution utilities.
package executil

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunInput executes a command with stdin connected to in.
	RunInput(ctx context.Context, in io.Reader, cmd string, args ...string) ([]byte, error)
	// Shell executes script with `sh -c`.
	Shell(ctx context.Context, script string) ([]byte, error)
}

// RealExecutor calls actual shell commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// RunInput executes a command with stdin connected to in.
func (e *RealExecutor) RunInput(ctx context.Context, in io.Reader, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdin = in
	out, err := c.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// Shell executes script with `sh -c`.
func (e *RealExecutor) Shell(ctx context.Context, script string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", script).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec sh: %w", err)
	}
	return out, nil
}
