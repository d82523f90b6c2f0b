package annotation

import (
	"cmp"
	"slices"
	"strings"
)

// Compare orders annotations by file (path component by component), line,
// column and then severity with the most severe first. The remaining fields
// break any leftover ties, so Compare returns 0 only for equal annotations.
func Compare(a, b Annotation) int {
	if c := ComparePaths(a.File, b.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Col, b.Col); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EndLine, b.EndLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EndColumn, b.EndColumn); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	if c := strings.Compare(a.Message, b.Message); c != 0 {
		return c
	}
	return strings.Compare(a.File, b.File)
}

// ComparePaths compares slash-separated paths component-wise, so "src/a.rs"
// sorts before "src-b/a.rs". Repeated separators and interior "." components
// are ignored; an absolute path sorts before a relative one.
func ComparePaths(a, b string) int {
	return slices.Compare(pathComponents(a), pathComponents(b))
}

func pathComponents(p string) []string {
	var parts []string
	if strings.HasPrefix(p, "/") {
		parts = append(parts, "")
	}
	for i, part := range strings.Split(p, "/") {
		if part == "" || (part == "." && i > 0) {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// Sort sorts annotations in place by Compare.
func Sort(as []Annotation) {
	slices.SortFunc(as, Compare)
}
