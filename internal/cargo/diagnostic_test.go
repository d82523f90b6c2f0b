package cargo

import (
	"errors"
	"testing"

	"github.com/dshills/ghannotate/internal/annotation"
)

const unusedVariable = `{"message":"unused variable","level":"warning","spans":[{"file_name":"src/a.rs","line_start":3,"line_end":3,"column_start":1,"column_end":5,"is_primary":true}],"rendered":null}`

func TestParseDiagnosticUnusedVariable(t *testing.T) {
	d, err := ParseDiagnostic([]byte(unusedVariable))
	if err != nil {
		t.Fatalf("ParseDiagnostic: %v", err)
	}
	if d.Level != LevelWarning {
		t.Errorf("level = %q, want warning", d.Level)
	}
	if d.Rendered != nil {
		t.Errorf("rendered = %q, want nil", *d.Rendered)
	}

	as, err := d.Annotations()
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if len(as) != 1 {
		t.Fatalf("got %d annotations, want 1", len(as))
	}
	want := "::warning file=src/a.rs,line=3,col=1,endColumn=5::unused variable"
	if got := as[0].String(); got != want {
		t.Errorf("encoded =\n  %s\nwant\n  %s", got, want)
	}

	sums := d.Summaries()
	if len(sums) != 1 {
		t.Fatalf("got %d summaries, want 1", len(sums))
	}
	if sums[0].Location == nil || *sums[0].Location != (Location{File: "src/a.rs", Line: 3}) {
		t.Errorf("location = %+v, want src/a.rs:3", sums[0].Location)
	}
}

func TestLevelSeverity(t *testing.T) {
	tests := []struct {
		level Level
		want  annotation.Severity
	}{
		{LevelError, annotation.SeverityError},
		{LevelInternalCompilerError, annotation.SeverityError},
		{LevelWarning, annotation.SeverityWarning},
		{LevelNote, annotation.SeverityNotice},
		{LevelHelp, annotation.SeverityNotice},
		{LevelFailureNote, annotation.SeverityNotice},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			line := `{"message":"m","level":"` + string(tt.level) + `","spans":[{"file_name":"a.rs","line_start":1,"line_end":1,"column_start":1,"column_end":2,"is_primary":true}]}`
			d, err := ParseDiagnostic([]byte(line))
			if err != nil {
				t.Fatalf("ParseDiagnostic: %v", err)
			}
			as, err := d.Annotations()
			if err != nil {
				t.Fatalf("Annotations: %v", err)
			}
			if as[0].Severity != tt.want {
				t.Errorf("severity = %s, want %s", as[0].Severity, tt.want)
			}
		})
	}
}

func TestDiagnosticRenderedBecomesBody(t *testing.T) {
	line := `{"message":"mismatched types","level":"error","spans":[` +
		`{"file_name":"src/lib.rs","line_start":7,"line_end":7,"column_start":3,"column_end":8,"is_primary":false},` +
		`{"file_name":"src/lib.rs","line_start":10,"line_end":12,"column_start":5,"column_end":6,"is_primary":true}],` +
		`"rendered":"error[E0308]: mismatched types\n --> src/lib.rs:10:5\n"}`
	d, err := ParseDiagnostic([]byte(line))
	if err != nil {
		t.Fatalf("ParseDiagnostic: %v", err)
	}
	as, err := d.Annotations()
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	a := as[0]
	if a.Title != "mismatched types" {
		t.Errorf("title = %q, want raw message", a.Title)
	}
	if a.Message != "error[E0308]: mismatched types\n --> src/lib.rs:10:5\n" {
		t.Errorf("message = %q, want rendered text", a.Message)
	}
	if a.Line != 10 || a.EndLine != 12 || a.Col != 5 || a.EndColumn != 6 {
		t.Errorf("location = %d-%d:%d-%d, want primary span 10-12:5-6", a.Line, a.EndLine, a.Col, a.EndColumn)
	}
	want := "::error file=src/lib.rs,line=10,endLine=12,col=5,endColumn=6,title=mismatched types::error[E0308]: mismatched types%0A --> src/lib.rs:10:5"
	if got := a.String(); got != want {
		t.Errorf("encoded =\n  %s\nwant\n  %s", got, want)
	}
}

func TestDiagnosticMissingPrimarySpan(t *testing.T) {
	line := `{"message":"orphan","level":"error","spans":[{"file_name":"a.rs","line_start":1,"line_end":1,"column_start":1,"column_end":2,"is_primary":false}],"rendered":null}`
	d, err := ParseDiagnostic([]byte(line))
	if err != nil {
		t.Fatalf("ParseDiagnostic: %v", err)
	}
	_, err = d.Annotations()
	if !errors.Is(err, ErrNoPrimarySpan) {
		t.Errorf("Annotations error = %v, want ErrNoPrimarySpan", err)
	}
	if sums := d.Summaries(); sums[0].Location != nil {
		t.Errorf("summary location = %+v, want nil", sums[0].Location)
	}
}

func TestParseDiagnosticCargoEnvelope(t *testing.T) {
	line := `{"reason":"compiler-message","package_id":"demo 0.1.0","target":{"name":"demo"},"message":` + unusedVariable + `}`
	d, err := ParseDiagnostic([]byte(line))
	if err != nil {
		t.Fatalf("ParseDiagnostic: %v", err)
	}
	if d.Message != "unused variable" {
		t.Errorf("message = %q", d.Message)
	}

	_, err = ParseDiagnostic([]byte(`{"reason":"build-finished","success":true}`))
	if !errors.Is(err, ErrNotDiagnostic) {
		t.Errorf("build-finished error = %v, want ErrNotDiagnostic", err)
	}
}

func TestParseDiagnosticMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", "   Compiling demo v0.1.0"},
		{"empty", ""},
		{"array", "[]"},
		{"missing level", `{"message":"m","spans":[]}`},
		{"missing spans", `{"message":"m","level":"error"}`},
		{"unknown level", `{"message":"m","level":"fatal","spans":[]}`},
		{"span missing is_primary", `{"message":"m","level":"error","spans":[{"file_name":"a.rs","line_start":1,"line_end":1,"column_start":1,"column_end":2}]}`},
		{"message wrong type", `{"message":1,"level":"error","spans":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDiagnostic([]byte(tt.line)); err == nil {
				t.Errorf("expected error for %q", tt.line)
			}
		})
	}
}
