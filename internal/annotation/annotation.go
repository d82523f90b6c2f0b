// Package annotation defines the GitHub Actions annotation model, its
// ordering and its workflow command encoding.
package annotation

import (
	"strconv"
	"strings"
)

// Annotation is one file/line annotation destined for the workflow log.
//
// Optional integer fields use 0 for "absent"; every present value is 1-based.
// An empty Title is absent. Annotation is comparable, and two annotations
// are the same annotation exactly when they are ==.
type Annotation struct {
	Severity  Severity
	File      string
	Line      int
	EndLine   int
	Col       int
	EndColumn int
	Title     string
	Message   string
}

// String encodes the annotation as a single workflow command line
// (without the trailing newline).
func (a Annotation) String() string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(a.Severity.String())
	b.WriteString(" file=")
	b.WriteString(a.File)
	b.WriteString(",line=")
	b.WriteString(strconv.Itoa(a.Line))
	if a.EndLine != 0 {
		b.WriteString(",endLine=")
		b.WriteString(strconv.Itoa(a.EndLine))
	}
	if a.Col != 0 {
		b.WriteString(",col=")
		b.WriteString(strconv.Itoa(a.Col))
		if a.EndColumn != 0 {
			b.WriteString(",endColumn=")
			b.WriteString(strconv.Itoa(a.EndColumn))
		}
	}
	if a.Title != "" {
		b.WriteString(",title=")
		b.WriteString(a.Title)
	}
	b.WriteString("::")
	b.WriteString(EscapeData(a.Message))
	return b.String()
}

// EscapeData trims s and escapes it for use as command data.
// '%' must be escaped first so the sequences added for CR and LF stay intact.
func EscapeData(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return s
}
