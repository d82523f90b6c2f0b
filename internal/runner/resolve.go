package runner

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// Settings select the executables used by Resolve.
type Settings struct {
	// Cargo is the cargo executable, by name or path.
	Cargo string
	// FmtToolchain is the rustup toolchain used for fmt, which needs
	// nightly to print JSON.
	FmtToolchain string
	Stderr       io.Writer
	// LookPath resolves executables; nil means exec.LookPath.
	LookPath func(string) (string, error)
}

// Resolve returns the runner for sub: cargo itself, or rustup running the
// configured toolchain's cargo for fmt.
func Resolve(sub Subcommand, s Settings) (Runner, error) {
	if !sub.Valid() {
		return nil, fmt.Errorf("runner.Resolve: unknown subcommand %q", sub)
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if sub == Fmt {
		rustup, err := lookPath("rustup")
		if err != nil {
			return nil, fmt.Errorf("%w: rustup: %w", fault.ErrMissingRequirements, err)
		}
		toolchain := s.FmtToolchain
		if toolchain == "" {
			toolchain = "nightly"
		}
		return &Command{Path: rustup, Prefix: []string{"run", toolchain, "cargo"}, Stderr: s.Stderr}, nil
	}

	name := s.Cargo
	if name == "" {
		name = "cargo"
	}
	cargoPath, err := lookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrMissingRequirements, name, err)
	}
	return &Command{Path: cargoPath, Stderr: s.Stderr}, nil
}
