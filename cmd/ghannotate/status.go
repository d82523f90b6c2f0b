package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/ghannotate/internal/annotation"
	"github.com/dshills/ghannotate/internal/driver"
	"github.com/dshills/ghannotate/internal/runner"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	severityInk = map[annotation.Severity]*color.Color{
		annotation.SeverityError:   color.New(color.FgRed),
		annotation.SeverityWarning: color.New(color.FgYellow),
		annotation.SeverityNotice:  color.New(color.FgBlue),
	}
)

// writeStatus prints a one-line verdict with per-severity totals, e.g.
// "ghannotate clippy: failed (1 error, 2 warnings, 0 notices)".
func writeStatus(w io.Writer, sub runner.Subcommand, res driver.Result, failed bool) {
	verdict := okColor.Sprint("ok")
	if failed {
		verdict = failColor.Sprint("failed")
	}

	parts := make([]string, 0, len(annotation.Severities))
	for _, sev := range annotation.Severities {
		n := res.Counts[sev]
		parts = append(parts, severityInk[sev].Sprintf("%d %s", n, plural(sev.String(), n)))
	}

	fmt.Fprintf(w, "ghannotate %s: %s (%s)\n", sub, verdict, strings.Join(parts, ", "))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
