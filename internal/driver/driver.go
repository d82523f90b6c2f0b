// Package driver feeds captured build-tool output through a parser, collects
// the resulting annotations in order without duplicates, and folds the
// summary item of every kept annotation into a summary writer.
package driver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/ghannotate/internal/annotation"
	"github.com/dshills/ghannotate/internal/cargo"
	"github.com/dshills/ghannotate/internal/summary"
)

// Framing splits captured output into records.
type Framing int

const (
	// Lines treats every line as one record.
	Lines Framing = iota
	// Whole treats the entire output as one record.
	Whole
)

const maxLineSize = 64 << 20

// Options tune a Driver.
type Options struct {
	Framing Framing
	// Transform, if set, rewrites each annotation before deduplication.
	Transform func(annotation.Annotation) annotation.Annotation
}

// Result describes what a run emitted.
type Result struct {
	Emitted int
	Skipped int
	// Max is the highest emitted severity; meaningful only if Emitted > 0.
	Max    annotation.Severity
	Counts map[annotation.Severity]int
}

// Fails reports whether an emitted annotation reached threshold.
func (r Result) Fails(threshold annotation.Severity) bool {
	return r.Emitted > 0 && r.Max >= threshold
}

// Driver owns the annotation set and the summary body of one run.
// It is not safe for concurrent use.
type Driver[S any] struct {
	parse  cargo.ParseFunc
	writer summary.Writer[S]
	opts   Options

	set     annotation.Set
	items   map[annotation.Annotation]S
	skipped int

	// body is rendered once, on first use after the stream is consumed.
	body   bytes.Buffer
	folded bool
}

func New[S any](parse cargo.ParseFunc, writer summary.Writer[S], opts Options) *Driver[S] {
	return &Driver[S]{parse: parse, writer: writer, opts: opts, items: make(map[annotation.Annotation]S)}
}

// Consume frames r and handles every record. It stops at the first fatal
// error; unparsable records are skipped.
func (d *Driver[S]) Consume(r io.Reader) error {
	if d.opts.Framing == Whole {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("driver.Consume: %w", err)
		}
		return d.Handle(data)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := d.Handle(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("driver.Consume: %w", err)
	}
	return nil
}

// Handle processes one record. The record may be reused by the caller
// once Handle returns.
func (d *Driver[S]) Handle(record []byte) error {
	msg, err := d.parse(record)
	if err != nil {
		d.skipped++
		slog.Debug("driver.Handle", "stage", "skip", "error", err)
		return nil
	}

	as, err := msg.Annotations()
	if err != nil {
		return fmt.Errorf("driver.Handle: %w", err)
	}

	var items []S
	if summarizer, ok := msg.(cargo.Summarizer[S]); ok {
		items = summarizer.Summaries()
		if len(items) != len(as) {
			return fmt.Errorf("driver.Handle: %d summary items for %d annotations", len(items), len(as))
		}
	}

	for i, a := range as {
		if d.opts.Transform != nil {
			a = d.opts.Transform(a)
		}
		if errs := annotation.Validate(a); len(errs) > 0 {
			return fmt.Errorf("driver.Handle: invalid annotation for %s:%d: %w", a.File, a.Line, joinValidation(errs))
		}
		if d.set.Insert(a) && items != nil {
			d.items[a] = items[i]
		}
	}
	return nil
}

// fold writes the summary items to the body in annotation order, so the
// summary does not depend on input order.
func (d *Driver[S]) fold() error {
	if d.folded {
		return nil
	}
	d.folded = true
	for _, a := range d.set.All() {
		item, ok := d.items[a]
		if !ok {
			continue
		}
		if err := d.writer.WriteSummary(&d.body, item); err != nil {
			return fmt.Errorf("driver.fold: %w", err)
		}
	}
	return nil
}

// Emit writes every collected annotation to out as a workflow command,
// in annotation order.
func (d *Driver[S]) Emit(out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, a := range d.set.All() {
		if _, err := fmt.Fprintln(w, a.String()); err != nil {
			return fmt.Errorf("driver.Emit: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("driver.Emit: %w", err)
	}
	return nil
}

// Annotations returns the collected annotations in order.
func (d *Driver[S]) Annotations() []annotation.Annotation {
	return d.set.All()
}

// WriteSummary runs the writer's lifecycle against out. Call it only after
// the stream has been consumed.
func (d *Driver[S]) WriteSummary(out io.Writer) error {
	if err := d.fold(); err != nil {
		return err
	}
	return summary.Write(out, d.writer, d.body.Bytes())
}

// WriteSummaryFile runs the writer's lifecycle against the file at path.
func (d *Driver[S]) WriteSummaryFile(path string, appendTo bool) error {
	if err := d.fold(); err != nil {
		return err
	}
	return summary.WriteFile(path, appendTo, d.writer, d.body.Bytes())
}

func (d *Driver[S]) Result() Result {
	r := Result{
		Emitted: d.set.Len(),
		Skipped: d.skipped,
		Counts:  make(map[annotation.Severity]int),
	}
	r.Max, _ = d.set.Max()
	for _, a := range d.set.All() {
		r.Counts[a.Severity]++
	}
	return r
}

// Run consumes in and writes the annotations to out.
func Run[S any](in io.Reader, out io.Writer, parse cargo.ParseFunc, writer summary.Writer[S], opts Options) (*Driver[S], error) {
	d := New(parse, writer, opts)
	if err := d.Consume(in); err != nil {
		return nil, err
	}
	if err := d.Emit(out); err != nil {
		return nil, err
	}
	return d, nil
}

func joinValidation(errs []annotation.ValidationError) error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return errors.Join(out...)
}
