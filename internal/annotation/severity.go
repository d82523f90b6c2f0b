package annotation

import (
	"fmt"
	"strings"
)

// Severity is the kind of an annotation. Values are ordered:
// Notice < Warning < Error.
type Severity int

const (
	SeverityNotice Severity = iota
	SeverityWarning
	SeverityError
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityNotice}

func (s Severity) Valid() bool {
	switch s {
	case SeverityNotice, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// String returns the workflow command token: notice, warning or error.
func (s Severity) String() string {
	switch s {
	case SeverityNotice:
		return "notice"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Emoji returns the glyph shown next to the severity in job summaries.
func (s Severity) Emoji() string {
	switch s {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Label renders the severity for humans, e.g. "⚠️ Warning".
func (s Severity) Label() string {
	name := s.String()
	if !s.Valid() {
		return name
	}
	return s.Emoji() + " " + strings.ToUpper(name[:1]) + name[1:]
}

// ParseSeverity accepts the workflow token in any case; "warn" is an alias.
func ParseSeverity(text string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "notice", "note", "info":
		return SeverityNotice, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("annotation.ParseSeverity: unknown severity %q", text)
}

// UnmarshalText lets config files and flags name a severity.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("annotation.Severity: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}
