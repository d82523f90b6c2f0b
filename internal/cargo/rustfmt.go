package cargo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dshills/ghannotate/internal/annotation"
)

// MismatchTitle is the title of every formatting annotation.
const MismatchTitle = "Format mismatch"

// FileMismatches lists the formatting errors rustfmt found in one file.
type FileMismatches struct {
	Name       string
	Mismatches []Mismatch
}

// Mismatch is one block of code that differs from rustfmt's output.
// Lines are 1-based and inclusive.
type Mismatch struct {
	OriginalBeginLine int
	OriginalEndLine   int
	ExpectedBeginLine int
	ExpectedEndLine   int
	// Original is the current code.
	Original string
	// Expected is the formatted code.
	Expected string
}

func (f *FileMismatches) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       *string     `json:"name"`
		Mismatches *[]Mismatch `json:"mismatches"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Name == nil:
		return missingField("name")
	case raw.Mismatches == nil:
		return missingField("mismatches")
	}
	*f = FileMismatches{Name: *raw.Name, Mismatches: *raw.Mismatches}
	return nil
}

func (m *Mismatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		OriginalBeginLine *int    `json:"original_begin_line"`
		OriginalEndLine   *int    `json:"original_end_line"`
		ExpectedBeginLine *int    `json:"expected_begin_line"`
		ExpectedEndLine   *int    `json:"expected_end_line"`
		Original          *string `json:"original"`
		Expected          *string `json:"expected"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.OriginalBeginLine == nil:
		return missingField("original_begin_line")
	case raw.OriginalEndLine == nil:
		return missingField("original_end_line")
	case raw.ExpectedBeginLine == nil:
		return missingField("expected_begin_line")
	case raw.ExpectedEndLine == nil:
		return missingField("expected_end_line")
	case raw.Original == nil:
		return missingField("original")
	case raw.Expected == nil:
		return missingField("expected")
	}
	*m = Mismatch{
		OriginalBeginLine: *raw.OriginalBeginLine,
		OriginalEndLine:   *raw.OriginalEndLine,
		ExpectedBeginLine: *raw.ExpectedBeginLine,
		ExpectedEndLine:   *raw.ExpectedEndLine,
		Original:          *raw.Original,
		Expected:          *raw.Expected,
	}
	return nil
}

// Report is the complete rustfmt output of one run.
type Report struct {
	Files []FileMismatches
	// BaseDir is stripped from file names so paths are repository-relative.
	BaseDir string
}

// ParseReport decodes rustfmt's JSON output. cargo fmt runs rustfmt once
// per package, so data may hold several arrays back to back; they are
// concatenated. Decoding stops at the first token that is not a report,
// keeping the arrays read before it; data with no report at all is an error.
func ParseReport(data []byte, baseDir string) (*Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	r := &Report{BaseDir: baseDir}
	decoded := false
	for {
		var batch []FileMismatches
		err := dec.Decode(&batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if decoded {
				break
			}
			return nil, fmt.Errorf("cargo.ParseReport: %w", err)
		}
		decoded = true
		r.Files = append(r.Files, batch...)
	}
	if !decoded {
		return nil, fmt.Errorf("cargo.ParseReport: %w", ErrEmptyReport)
	}
	return r, nil
}

// RelativePath strips baseDir from the front of name, at a path component
// boundary, and then any leading separators.
func RelativePath(name, baseDir string) string {
	base := strings.TrimRight(baseDir, `/`+string(filepath.Separator))
	if base != "" && strings.HasPrefix(name, base) {
		rest := name[len(base):]
		if rest == "" || strings.ContainsRune(`/`+string(filepath.Separator), rune(rest[0])) {
			name = rest
		}
	}
	return strings.TrimLeft(name, `/`+string(filepath.Separator))
}

// Annotations returns one warning per mismatch across all files.
func (r *Report) Annotations() ([]annotation.Annotation, error) {
	var out []annotation.Annotation
	for _, f := range r.Files {
		file := RelativePath(f.Name, r.BaseDir)
		for _, m := range f.Mismatches {
			// rustfmt reports a pure insertion as end = begin - 1; clamp so endLine >= line.
			out = append(out, annotation.Annotation{
				Severity: annotation.SeverityWarning,
				File:     file,
				Line:     m.OriginalBeginLine,
				EndLine:  max(m.OriginalEndLine, m.OriginalBeginLine),
				Title:    MismatchTitle,
				Message:  m.Expected,
			})
		}
	}
	return out, nil
}

// MismatchSummary is the summary item for one mismatch. Writers group
// consecutive items by File.
type MismatchSummary struct {
	File string
	Line int
}

// Summaries returns one item per mismatch, in the same order as Annotations.
func (r *Report) Summaries() []MismatchSummary {
	var out []MismatchSummary
	for _, f := range r.Files {
		file := RelativePath(f.Name, r.BaseDir)
		for _, m := range f.Mismatches {
			out = append(out, MismatchSummary{File: file, Line: m.OriginalBeginLine})
		}
	}
	return out
}
