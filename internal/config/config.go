// Package config resolves ghannotate settings from built-in defaults, an
// optional YAML file and the environment.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/farcloser/primordium/fault"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/ghannotate/internal/annotation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// FileName is the config file looked up in the working directory.
const FileName = ".ghannotate.yaml"

// StepSummaryEnv names the file GitHub Actions renders as the job summary.
const StepSummaryEnv = "GITHUB_STEP_SUMMARY"

// Config holds every setting the CLI consumes.
type Config struct {
	Cargo        string  `yaml:"cargo"`
	FmtToolchain string  `yaml:"fmt_toolchain"`
	FailOn       string  `yaml:"fail_on"`
	Redact       Redact  `yaml:"redact"`
	Summary      Summary `yaml:"summary"`

	failOn annotation.Severity
}

// Redact configures secret masking.
type Redact struct {
	Enabled  bool     `yaml:"enabled"`
	Patterns []string `yaml:"patterns"`
}

// Summary configures where the markdown summary goes.
type Summary struct {
	Path      string `yaml:"path"`
	DebugPath string `yaml:"debug_path"`
	Append    bool   `yaml:"append"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		return nil, fmt.Errorf("config.Default: %w", err)
	}
	if err := c.resolve(); err != nil {
		return nil, fmt.Errorf("config.Default: %w", err)
	}
	return &c, nil
}

// Load overlays the file at path onto the defaults. An empty path means
// FileName in dir, which may be absent. The CARGO environment variable
// overrides the configured cargo.
func Load(dir, path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	optional := path == ""
	if optional {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("%w: config.Load: %w", fault.ErrReadFailure, err)
	}

	if cargo := os.Getenv("CARGO"); cargo != "" {
		c.Cargo = cargo
	}
	if err := c.resolve(); err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) resolve() error {
	sev, err := annotation.ParseSeverity(c.FailOn)
	if err != nil {
		return fmt.Errorf("fail_on: %w", err)
	}
	c.failOn = sev
	return nil
}

// Threshold is the lowest severity that fails the run. allowWarnings raises
// it to error.
func (c *Config) Threshold(allowWarnings bool) annotation.Severity {
	if allowWarnings {
		return annotation.SeverityError
	}
	return c.failOn
}

// SummaryPath picks the summary sink: the configured path, then
// GITHUB_STEP_SUMMARY, then the debug path when debug is set. An empty
// result means no summary is written.
func (c *Config) SummaryPath(debug bool) string {
	if c.Summary.Path != "" {
		return c.Summary.Path
	}
	if p := os.Getenv(StepSummaryEnv); p != "" {
		return p
	}
	if debug {
		return c.Summary.DebugPath
	}
	return ""
}

// LoadEnvFile adds the variables in a dotenv file to the environment.
// Variables already set are left alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: config.LoadEnvFile: %w", fault.ErrReadFailure, err)
	}
	return nil
}
