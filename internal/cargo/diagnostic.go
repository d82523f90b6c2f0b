package cargo

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/ghannotate/internal/annotation"
)

// Level is the severity of a rustc diagnostic.
type Level string

const (
	LevelError                 Level = "error"
	LevelWarning               Level = "warning"
	LevelNote                  Level = "note"
	LevelHelp                  Level = "help"
	LevelFailureNote           Level = "failure-note"
	LevelInternalCompilerError Level = "error: internal compiler error"
)

func (l Level) Valid() bool {
	switch l {
	case LevelError, LevelWarning, LevelNote, LevelHelp, LevelFailureNote, LevelInternalCompilerError:
		return true
	}
	return false
}

// Severity maps the level onto the annotation severities.
func (l Level) Severity() annotation.Severity {
	switch l {
	case LevelError, LevelInternalCompilerError:
		return annotation.SeverityError
	case LevelWarning:
		return annotation.SeverityWarning
	default:
		return annotation.SeverityNotice
	}
}

func (l *Level) UnmarshalText(text []byte) error {
	v := Level(text)
	if !v.Valid() {
		return fmt.Errorf("cargo.Level: unknown level %q", text)
	}
	*l = v
	return nil
}

// Diagnostic is a message output by rustc.
type Diagnostic struct {
	// Message is the primary message.
	Message string
	Level   Level
	// Spans are the source locations of the diagnostic.
	Spans []Span
	// Rendered is the diagnostic as rustc would print it, if available.
	Rendered *string
}

// Span is a source location of a diagnostic. Lines and columns are 1-based;
// ColumnEnd is exclusive.
type Span struct {
	// FileName may not exist on disk, or may point into an external crate.
	FileName    string
	LineStart   int
	LineEnd     int
	ColumnStart int
	ColumnEnd   int
	IsPrimary   bool
}

func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message  *string `json:"message"`
		Level    *Level  `json:"level"`
		Spans    *[]Span `json:"spans"`
		Rendered *string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Message == nil:
		return missingField("message")
	case raw.Level == nil:
		return missingField("level")
	case raw.Spans == nil:
		return missingField("spans")
	}
	*d = Diagnostic{
		Message:  *raw.Message,
		Level:    *raw.Level,
		Spans:    *raw.Spans,
		Rendered: raw.Rendered,
	}
	return nil
}

func (s *Span) UnmarshalJSON(data []byte) error {
	var raw struct {
		FileName    *string `json:"file_name"`
		LineStart   *int    `json:"line_start"`
		LineEnd     *int    `json:"line_end"`
		ColumnStart *int    `json:"column_start"`
		ColumnEnd   *int    `json:"column_end"`
		IsPrimary   *bool   `json:"is_primary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.FileName == nil:
		return missingField("file_name")
	case raw.LineStart == nil:
		return missingField("line_start")
	case raw.LineEnd == nil:
		return missingField("line_end")
	case raw.ColumnStart == nil:
		return missingField("column_start")
	case raw.ColumnEnd == nil:
		return missingField("column_end")
	case raw.IsPrimary == nil:
		return missingField("is_primary")
	}
	*s = Span{
		FileName:    *raw.FileName,
		LineStart:   *raw.LineStart,
		LineEnd:     *raw.LineEnd,
		ColumnStart: *raw.ColumnStart,
		ColumnEnd:   *raw.ColumnEnd,
		IsPrimary:   *raw.IsPrimary,
	}
	return nil
}

// ParseDiagnostic decodes one line of rustc or cargo JSON output. Cargo's
// "compiler-message" envelope is unwrapped; other cargo messages yield
// ErrNotDiagnostic.
func ParseDiagnostic(line []byte) (*Diagnostic, error) {
	var env struct {
		Reason  string          `json:"reason"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("cargo.ParseDiagnostic: %w", err)
	}

	payload := line
	switch env.Reason {
	case "":
	case "compiler-message":
		payload = env.Message
	default:
		return nil, fmt.Errorf("cargo.ParseDiagnostic: %w: reason %q", ErrNotDiagnostic, env.Reason)
	}

	var d Diagnostic
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("cargo.ParseDiagnostic: %w", err)
	}
	return &d, nil
}

// PrimarySpan returns the first span flagged primary.
func (d *Diagnostic) PrimarySpan() (Span, bool) {
	for _, s := range d.Spans {
		if s.IsPrimary {
			return s, true
		}
	}
	return Span{}, false
}

// Annotations returns the single annotation for the primary span. When a
// rendered form exists it becomes the body and the short message the title.
func (d *Diagnostic) Annotations() ([]annotation.Annotation, error) {
	span, ok := d.PrimarySpan()
	if !ok {
		return nil, fmt.Errorf("cargo.Diagnostic.Annotations: %w: %q", ErrNoPrimarySpan, d.Message)
	}

	a := annotation.Annotation{
		Severity:  d.Level.Severity(),
		File:      span.FileName,
		Line:      span.LineStart,
		Col:       span.ColumnStart,
		EndColumn: span.ColumnEnd,
		Message:   d.Message,
	}
	if span.LineEnd > span.LineStart {
		a.EndLine = span.LineEnd
	}
	if d.Rendered != nil {
		a.Title = d.Message
		a.Message = *d.Rendered
	}
	return []annotation.Annotation{a}, nil
}

// Location is a file and 1-based line.
type Location struct {
	File string
	Line int
}

// DiagnosticSummary is the summary row for one diagnostic.
type DiagnosticSummary struct {
	Level   Level
	Message string
	// Location is the start of the primary span, nil if there is none.
	Location *Location
}

func (d *Diagnostic) Summaries() []DiagnosticSummary {
	s := DiagnosticSummary{Level: d.Level, Message: d.Message}
	if span, ok := d.PrimarySpan(); ok {
		s.Location = &Location{File: span.FileName, Line: span.LineStart}
	}
	return []DiagnosticSummary{s}
}
