package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/ghannotate/internal/annotation"
	"github.com/dshills/ghannotate/internal/cargo"
)

var _ Writer[cargo.DiagnosticSummary] = (*DiagnosticWriter)(nil)

// DiagnosticWriter renders compiler diagnostics as a Markdown table and
// counts them per severity.
type DiagnosticWriter struct {
	// Sanitize, if set, is applied to every message before it is rendered.
	Sanitize func(string) string

	counts map[annotation.Severity]int
}

func (w *DiagnosticWriter) WriteSummary(body io.Writer, item cargo.DiagnosticSummary) error {
	sev := item.Level.Severity()
	if w.counts == nil {
		w.counts = make(map[annotation.Severity]int)
	}
	w.counts[sev]++

	msg := item.Message
	if w.Sanitize != nil {
		msg = w.Sanitize(msg)
	}
	var location string
	if item.Location != nil {
		location = fmt.Sprintf("`%s:%d`", item.Location.File, item.Location.Line)
	}
	_, err := fmt.Fprintf(body, "|%s|%s|%s|\n", sev.Label(), escapeCell(msg), location)
	return err
}

func (w *DiagnosticWriter) WritePreamble(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "> **TOTAL:** %d errors, %d warnings, %d notices\n\n",
		w.Count(annotation.SeverityError),
		w.Count(annotation.SeverityWarning),
		w.Count(annotation.SeverityNotice)); err != nil {
		return err
	}
	_, err := io.WriteString(out, "|Level|Message|Location|\n|:--|:--|--:|\n")
	return err
}

func (w *DiagnosticWriter) WritePostamble(io.Writer) error { return nil }

// Count returns how many summaries of the given severity were written.
func (w *DiagnosticWriter) Count(sev annotation.Severity) int {
	return w.counts[sev]
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// escapeCell keeps text on one table row.
func escapeCell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}
