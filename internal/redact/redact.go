// Package redact masks secrets in annotation text before it is written to
// the workflow log, where rendered diagnostics would otherwise echo source
// lines verbatim.
package redact

import (
	"fmt"
	"regexp"

	"github.com/dshills/ghannotate/internal/annotation"
)

// Placeholder replaces every match.
const Placeholder = "[REDACTED]"

var builtin = []string{
	// AWS access key IDs
	`AKIA[0-9A-Z]{16}`,
	// AWS secret access keys (40 char base64 after common prefixes)
	`(?i)(aws_secret_access_key|aws_secret)\s*[:=]\s*[A-Za-z0-9/+=]{40}`,
	// Private key blocks
	`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`,
	// Bearer tokens
	`Bearer\s+[A-Za-z0-9\-._~+/]+=*`,
	// GitHub tokens
	`gh[pousr]_[A-Za-z0-9]{36,}`,
	// Generic key/secret/token/password assignments, quoted or not
	`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|credentials)\s*[:=]\s*"?[^\s",;]+"?`,
}

// Redactor replaces secret patterns in text.
type Redactor struct {
	patterns []*regexp.Regexp
}

// New compiles the built-in patterns plus any extra ones.
func New(extra []string) (*Redactor, error) {
	r := &Redactor{}
	for _, p := range append(append([]string(nil), builtin...), extra...) {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact.New: pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Text replaces every secret in s with Placeholder.
func (r *Redactor) Text(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, Placeholder)
	}
	return s
}

// Annotation returns a copy of a with its title and message redacted.
func (r *Redactor) Annotation(a annotation.Annotation) annotation.Annotation {
	a.Title = r.Text(a.Title)
	a.Message = r.Text(a.Message)
	return a
}
