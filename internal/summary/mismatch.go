package summary

import (
	"fmt"
	"io"

	"github.com/dshills/ghannotate/internal/cargo"
)

var _ Writer[cargo.MismatchSummary] = (*MismatchWriter)(nil)

// MismatchWriter lists formatting mismatches grouped by file. Items for the
// same file must arrive consecutively, as they do in annotation order.
type MismatchWriter struct {
	total int
	file  string
}

func (w *MismatchWriter) WriteSummary(body io.Writer, item cargo.MismatchSummary) error {
	if w.total == 0 || item.File != w.file {
		if _, err := fmt.Fprintf(body, "- `%s`\n", item.File); err != nil {
			return err
		}
		w.file = item.File
	}
	w.total++
	_, err := fmt.Fprintf(body, "  - L%d\n", item.Line)
	return err
}

func (w *MismatchWriter) WritePreamble(out io.Writer) error {
	_, err := fmt.Fprintf(out, "> **TOTAL:** %d mismatches\n\n", w.total)
	return err
}

func (w *MismatchWriter) WritePostamble(io.Writer) error { return nil }

// Total returns the number of mismatched blocks written so far.
func (w *MismatchWriter) Total() int { return w.total }
