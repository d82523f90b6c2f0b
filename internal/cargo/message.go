// Package cargo decodes the JSON messages emitted by rustc (through cargo)
// and rustfmt, and converts them into annotations and summary items.
package cargo

import (
	"errors"
	"fmt"

	"github.com/dshills/ghannotate/internal/annotation"
)

var (
	// ErrNoPrimarySpan means rustc broke its contract of one primary span
	// per diagnostic. Runs must abort on it.
	ErrNoPrimarySpan = errors.New("diagnostic has no primary span")

	// ErrNotDiagnostic is returned for well-formed cargo messages that carry
	// no compiler diagnostic (build artifacts, build-finished, ...).
	ErrNotDiagnostic = errors.New("not a compiler diagnostic")

	// ErrEmptyReport is returned when rustfmt output holds no JSON report.
	ErrEmptyReport = errors.New("no rustfmt report")

	errMissingField = errors.New("missing field")
)

// Message is one decoded producer record.
type Message interface {
	// Annotations converts the record. An error is a producer contract
	// violation, not malformed input.
	Annotations() ([]annotation.Annotation, error)
}

// Summarizer is implemented by messages that contribute items of type S to
// the job summary. Summaries returns one item per annotation, index for
// index, so an item is kept exactly when its annotation is new. A message
// that does not implement it has no summary.
type Summarizer[S any] interface {
	Summaries() []S
}

// ParseFunc decodes one framed record. Any error means the record is not a
// message of the expected format.
type ParseFunc func(record []byte) (Message, error)

// DiagnosticParser parses rustc diagnostics, one per line.
func DiagnosticParser() ParseFunc {
	return func(record []byte) (Message, error) {
		d, err := ParseDiagnostic(record)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// ReportParser parses a complete rustfmt report. File names are made
// relative to baseDir.
func ReportParser(baseDir string) ParseFunc {
	return func(record []byte) (Message, error) {
		r, err := ParseReport(record, baseDir)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Format names the producer of a stream.
type Format int

const (
	// FormatDiagnostic is rustc's diagnostic JSON, one object per line.
	FormatDiagnostic Format = iota
	// FormatMismatch is rustfmt's mismatch report, JSON arrays over the whole output.
	FormatMismatch
)

func (f Format) String() string {
	switch f {
	case FormatDiagnostic:
		return "diagnostic"
	case FormatMismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func missingField(name string) error {
	return fmt.Errorf("%w %q", errMissingField, name)
}
