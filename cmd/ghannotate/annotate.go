package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/ghannotate/internal/cargo"
	"github.com/dshills/ghannotate/internal/config"
	"github.com/dshills/ghannotate/internal/driver"
	"github.com/dshills/ghannotate/internal/redact"
	"github.com/dshills/ghannotate/internal/runner"
	"github.com/dshills/ghannotate/internal/summary"
)

// Exit codes.
const (
	exitThreshold = 1
	exitFatal     = 2
	exitConfig    = 3
)

var shortHelp = map[runner.Subcommand]string{
	runner.Check:  "Annotate the output of cargo check",
	runner.Clippy: "Annotate the output of cargo clippy",
	runner.Build:  "Annotate the output of cargo build",
	runner.Fmt:    "Annotate formatting mismatches reported by cargo fmt",
}

func newAnnotateCmd(sub runner.Subcommand, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   string(sub) + " [-- cargo args...]",
		Short: shortHelp[sub],
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd.Context(), sub, args, f)
		},
	}
}

func runAnnotate(ctx context.Context, sub runner.Subcommand, args []string, f *rootFlags) error {
	// 1. Environment and config
	if f.envFile != "" {
		if err := config.LoadEnvFile(f.envFile); err != nil {
			return exitError(exitConfig, "failed to load env file: %v", err)
		}
	}
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return exitError(exitFatal, "failed to get working directory: %v", err)
		}
		dir = wd
	}
	cfg, err := config.Load(dir, f.configPath)
	if err != nil {
		return exitError(exitConfig, "failed to load config: %v", err)
	}
	if f.cargo != "" {
		cfg.Cargo = f.cargo
	}
	if f.summaryPath != "" {
		cfg.Summary.Path = f.summaryPath
	}
	if f.redact {
		cfg.Redact.Enabled = true
	}
	threshold := cfg.Threshold(f.allowWarnings)

	var redactor *redact.Redactor
	if cfg.Redact.Enabled {
		redactor, err = redact.New(cfg.Redact.Patterns)
		if err != nil {
			return exitError(exitConfig, "invalid redact pattern: %v", err)
		}
	}

	// 2. Run cargo
	r := f.runner
	if r == nil {
		r, err = runner.Resolve(sub, runner.Settings{
			Cargo:        cfg.Cargo,
			FmtToolchain: cfg.FmtToolchain,
			Stderr:       f.stderr,
		})
		if err != nil {
			return exitError(exitFatal, "failed to resolve %s: %v", sub, err)
		}
	}
	slog.Debug("runAnnotate", "stage", "run", "runner", r.Name(), "subcommand", sub, "args", args)
	captured, err := r.Run(ctx, runner.Invocation{Subcommand: sub, Args: args, Dir: dir})
	if err != nil {
		return exitError(exitFatal, "failed to run %s: %v", r.Name(), err)
	}

	// 3. Annotate
	summaryPath := cfg.SummaryPath(f.debug)
	if summaryPath != "" && !filepath.IsAbs(summaryPath) {
		summaryPath = filepath.Join(dir, summaryPath)
	}
	out := sink{path: summaryPath, appendTo: cfg.Summary.Append}

	var opts driver.Options
	if redactor != nil {
		opts.Transform = redactor.Annotation
	}

	var res driver.Result
	switch sub.Format() {
	case cargo.FormatMismatch:
		// rustfmt prints one JSON array per line; stray lines are skipped.
		opts.Framing = driver.Lines
		res, err = annotate[cargo.MismatchSummary](captured, f, cargo.ReportParser(dir), &summary.MismatchWriter{}, opts, out)
	default:
		w := &summary.DiagnosticWriter{}
		if redactor != nil {
			w.Sanitize = redactor.Text
		}
		res, err = annotate[cargo.DiagnosticSummary](captured, f, cargo.DiagnosticParser(), w, opts, out)
	}
	if err != nil {
		return exitError(exitFatal, "failed to annotate %s output: %v", sub, err)
	}

	// 4. Report
	failed := res.Fails(threshold)
	writeStatus(f.stderr, sub, res, failed)
	if failed {
		return exitError(exitThreshold, "%s reported %s or worse", sub, threshold)
	}
	return nil
}

type sink struct {
	path     string
	appendTo bool
}

func annotate[S any](captured []byte, f *rootFlags, parse cargo.ParseFunc, w summary.Writer[S], opts driver.Options, s sink) (driver.Result, error) {
	d, err := driver.Run(bytes.NewReader(captured), f.stdout, parse, w, opts)
	if err != nil {
		return driver.Result{}, err
	}
	res := d.Result()
	slog.Debug("annotate", "stage", "emitted", "annotations", res.Emitted, "skipped", res.Skipped)

	if s.path == "" {
		slog.Debug("annotate", "stage", "summary", "skipped", true)
		return res, nil
	}
	if err := d.WriteSummaryFile(s.path, s.appendTo); err != nil {
		return driver.Result{}, err
	}
	slog.Debug("annotate", "stage", "summary", "path", s.path)
	return res, nil
}
