package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dshills/ghannotate/internal/config"
	"github.com/dshills/ghannotate/internal/runner"
)

var version = "0.1.0"

type rootFlags struct {
	cargo         string
	allowWarnings bool
	configPath    string
	envFile       string
	summaryPath   string
	debug         bool
	redact        bool
	verbose       bool

	// Set by tests; main leaves runner nil so it is resolved from config.
	runner runner.Runner
	dir    string
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root := newRootCmd(&rootFlags{stdout: os.Stdout, stderr: os.Stderr})
	root.SetArgs(trimSelf(os.Args[1:]))

	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCmd(f *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "ghannotate",
		Short:         "Turn cargo diagnostics into GitHub Actions annotations",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(f.stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.SetOut(f.stdout)
	root.SetErr(f.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&f.cargo, "cargo", "", "Cargo executable (default: config, then $CARGO, then cargo)")
	flags.BoolVar(&f.allowWarnings, "allow-warnings", false, "Only fail on errors")
	flags.StringVar(&f.configPath, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	flags.StringVar(&f.envFile, "env-file", "", "Load environment variables from a dotenv file")
	flags.StringVar(&f.summaryPath, "summary", "", "Write the markdown summary to this file")
	flags.BoolVar(&f.debug, "debug", false, "Write the summary to the debug path when no other sink is set")
	flags.BoolVar(&f.redact, "redact", false, "Mask secrets in annotation text")
	flags.BoolVar(&f.verbose, "verbose", false, "Log processing steps to stderr")

	for _, sub := range runner.Subcommands {
		root.AddCommand(newAnnotateCmd(sub, f))
	}
	return root
}

// trimSelf drops the subcommand name cargo passes to external subcommands,
// so "cargo ghannotate clippy" and "ghannotate clippy" behave the same.
func trimSelf(args []string) []string {
	if len(args) > 0 && args[0] == "ghannotate" {
		return args[1:]
	}
	return args
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
