// Package runner launches the build tool whose JSON output is annotated.
package runner

import (
	"context"
	"fmt"

	"github.com/dshills/ghannotate/internal/cargo"
)

// Subcommand is the cargo subcommand being annotated.
type Subcommand string

const (
	Check  Subcommand = "check"
	Clippy Subcommand = "clippy"
	Build  Subcommand = "build"
	Fmt    Subcommand = "fmt"
)

// Subcommands lists every supported subcommand.
var Subcommands = []Subcommand{Check, Clippy, Build, Fmt}

func (s Subcommand) Valid() bool {
	switch s {
	case Check, Clippy, Build, Fmt:
		return true
	}
	return false
}

// Format returns the kind of JSON the subcommand prints.
func (s Subcommand) Format() cargo.Format {
	if s == Fmt {
		return cargo.FormatMismatch
	}
	return cargo.FormatDiagnostic
}

// Invocation describes one build-tool run.
type Invocation struct {
	Subcommand Subcommand
	// Args are passed through to cargo after the subcommand.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Runner runs the build tool and returns its captured stdout.
type Runner interface {
	Run(ctx context.Context, inv Invocation) ([]byte, error)
	Name() string
}

// Mock is a test double that returns canned output and records calls.
type Mock struct {
	Output []byte
	Err    error
	Calls  []Invocation
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Run(_ context.Context, inv Invocation) ([]byte, error) {
	m.Calls = append(m.Calls, inv)
	if m.Err != nil {
		return nil, fmt.Errorf("runner.Mock: %w", m.Err)
	}
	return m.Output, nil
}
