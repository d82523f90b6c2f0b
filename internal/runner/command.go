package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/farcloser/primordium/fault"
)

const messageFormat = "--message-format=json"

// Command runs an executable directly. Prefix is inserted before the
// subcommand, e.g. "run nightly cargo" when Path is rustup.
type Command struct {
	Path   string
	Prefix []string
	// Stderr receives the tool's stderr; nil means os.Stderr.
	Stderr io.Writer
}

func (c *Command) Name() string { return filepath.Base(c.Path) }

// Args returns the full argument list for inv.
func (c *Command) Args(inv Invocation) []string {
	args := make([]string, 0, len(c.Prefix)+2+len(inv.Args))
	args = append(args, c.Prefix...)
	args = append(args, string(inv.Subcommand), messageFormat)
	return append(args, inv.Args...)
}

// Run executes the tool with stdin closed and returns its stdout. A non-zero
// exit status is not an error: cargo fails whenever it reports errors, and
// those are exactly what is being annotated.
func (c *Command) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	args := c.Args(inv)
	slog.Debug("runner.Command.Run", "path", c.Path, "args", args, "stage", "start")

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = nil
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			slog.Debug("runner.Command.Run", "path", c.Path, "stage", "error")

			return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, c.Path, err)
		}
		slog.Debug("runner.Command.Run", "path", c.Path, "stage", "exit", "code", exitErr.ExitCode())
	}

	slog.Debug("runner.Command.Run", "path", c.Path, "stage", "done", "bytes", stdout.Len())

	return stdout.Bytes(), nil
}
