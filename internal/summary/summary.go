// Package summary renders the Markdown job summary that accompanies the
// annotations.
package summary

import (
	"fmt"
	"io"
	"os"
)

// Writer accumulates summary items of type S.
//
// WriteSummary is called once per item, in annotation order, and appends
// that item's Markdown to body. WritePreamble and WritePostamble are
// called once, in that order, after every item has been written: the
// preamble can therefore report totals over all items.
type Writer[S any] interface {
	WriteSummary(body io.Writer, item S) error
	WritePreamble(w io.Writer) error
	WritePostamble(w io.Writer) error
}

// Nop is a Writer that writes nothing.
type Nop[S any] struct{}

func (Nop[S]) WriteSummary(io.Writer, S) error { return nil }
func (Nop[S]) WritePreamble(io.Writer) error   { return nil }
func (Nop[S]) WritePostamble(io.Writer) error  { return nil }

// Write emits the preamble, the buffered body and the postamble to out.
func Write[S any](out io.Writer, w Writer[S], body []byte) error {
	if err := w.WritePreamble(out); err != nil {
		return fmt.Errorf("summary.Write: preamble: %w", err)
	}
	if _, err := out.Write(body); err != nil {
		return fmt.Errorf("summary.Write: body: %w", err)
	}
	if err := w.WritePostamble(out); err != nil {
		return fmt.Errorf("summary.Write: postamble: %w", err)
	}
	return nil
}

// WriteFile writes the summary to path, replacing the file unless appendTo
// is set.
func WriteFile[S any](path string, appendTo bool, w Writer[S], body []byte) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendTo {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("summary.WriteFile: %w", err)
	}
	if err := Write(f, w, body); err != nil {
		f.Close()
		return fmt.Errorf("summary.WriteFile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("summary.WriteFile: %w", err)
	}
	return nil
}
