package annotation

import (
	"math/rand/v2"
	"slices"
	"testing"
)

// --- Encoding tests ---

func TestString(t *testing.T) {
	tests := []struct {
		name string
		a    Annotation
		want string
	}{
		{
			"line only",
			Annotation{Severity: SeverityNotice, File: "src/lib.rs", Line: 1, Message: "hello"},
			"::notice file=src/lib.rs,line=1::hello",
		},
		{
			"full",
			Annotation{
				Severity: SeverityError, File: "src/main.rs", Line: 3, EndLine: 5,
				Col: 2, EndColumn: 9, Title: "mismatched types", Message: "error[E0308]",
			},
			"::error file=src/main.rs,line=3,endLine=5,col=2,endColumn=9,title=mismatched types::error[E0308]",
		},
		{
			"column range",
			Annotation{Severity: SeverityWarning, File: "src/a.rs", Line: 3, Col: 1, EndColumn: 5, Message: "unused variable"},
			"::warning file=src/a.rs,line=3,col=1,endColumn=5::unused variable",
		},
		{
			"endColumn without col is dropped",
			Annotation{Severity: SeverityWarning, File: "a.rs", Line: 2, EndColumn: 4, Message: "m"},
			"::warning file=a.rs,line=2::m",
		},
		{
			"title without columns",
			Annotation{Severity: SeverityWarning, File: "a.rs", Line: 2, EndLine: 4, Title: "Format mismatch", Message: "fn main() {}\n"},
			"::warning file=a.rs,line=2,endLine=4,title=Format mismatch::fn main() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.String(); got != tt.want {
				t.Errorf("String() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestEscapeData(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  padded \n", "padded"},
		{"100%", "100%25"},
		{"a\nb", "a%0Ab"},
		{"a\r\nb", "a%0D%0Ab"},
		{"%0A literal", "%250A literal"},
		{"50% done\r\nnext", "50%25 done%0D%0Anext"},
	}
	for _, tt := range tests {
		if got := EscapeData(tt.in); got != tt.want {
			t.Errorf("EscapeData(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Severity tests ---

func TestSeverityOrder(t *testing.T) {
	if !(SeverityNotice < SeverityWarning && SeverityWarning < SeverityError) {
		t.Error("expected Notice < Warning < Error")
	}
}

func TestSeverityLabel(t *testing.T) {
	tests := map[Severity]string{
		SeverityError:   "❌ Error",
		SeverityWarning: "⚠️ Warning",
		SeverityNotice:  "ℹ️ Notice",
	}
	for s, want := range tests {
		if got := s.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", s, got, want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"ERROR", SeverityError, false},
		{"warning", SeverityWarning, false},
		{"warn", SeverityWarning, false},
		{" notice ", SeverityNotice, false},
		{"critical", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

// --- Ordering tests ---

func TestCompare(t *testing.T) {
	base := Annotation{Severity: SeverityWarning, File: "src/a.rs", Line: 10, Col: 5, Message: "m"}

	tests := []struct {
		name   string
		first  Annotation
		second Annotation
	}{
		{"file components", Annotation{File: "src/a.rs", Line: 99}, Annotation{File: "src-b/a.rs", Line: 1}},
		{"line", withLine(base, 9), base},
		{"absent column first", withCol(base, 0), base},
		{"column", withCol(base, 4), base},
		{"error before warning", withSeverity(base, SeverityError), base},
		{"warning before notice", base, withSeverity(base, SeverityNotice)},
		{"message breaks ties", withMessage(base, "a"), withMessage(base, "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := Compare(tt.first, tt.second); c >= 0 {
				t.Errorf("Compare(first, second) = %d, want < 0", c)
			}
			if c := Compare(tt.second, tt.first); c <= 0 {
				t.Errorf("Compare(second, first) = %d, want > 0", c)
			}
		})
	}

	if c := Compare(base, base); c != 0 {
		t.Errorf("Compare(x, x) = %d, want 0", c)
	}
}

func TestComparePaths(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"src/a.rs", "src/a.rs", 0},
		{"src//a.rs", "src/a.rs", 0},
		{"src/./a.rs", "src/a.rs", 0},
		{"src/a.rs", "src/b.rs", -1},
		{"src/z.rs", "src/sub/a.rs", 1},
		{"/abs/a.rs", "rel/a.rs", -1},
		{"src", "src/a.rs", -1},
	}
	for _, tt := range tests {
		if got := ComparePaths(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePaths(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSetOrderIsPermutationInvariant(t *testing.T) {
	as := []Annotation{
		{Severity: SeverityNotice, File: "src/lib.rs", Line: 4, Message: "n"},
		{Severity: SeverityError, File: "src/lib.rs", Line: 4, Message: "e"},
		{Severity: SeverityWarning, File: "src/lib.rs", Line: 4, Col: 1, Message: "w"},
		{Severity: SeverityWarning, File: "src/a/mod.rs", Line: 40, Message: "w"},
		{Severity: SeverityWarning, File: "build.rs", Line: 1, Message: "w"},
		{Severity: SeverityError, File: "src/lib.rs", Line: 2, Col: 7, EndColumn: 9, Message: "e"},
	}

	var want Set
	for _, a := range as {
		want.Insert(a)
	}

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		perm := slices.Clone(as)
		r.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		var got Set
		for _, a := range perm {
			got.Insert(a)
		}
		if !slices.Equal(got.All(), want.All()) {
			t.Fatalf("permutation %d produced a different order:\n%v\nwant\n%v", i, got.All(), want.All())
		}
	}

	sorted := slices.Clone(as)
	Sort(sorted)
	if !slices.Equal(sorted, want.All()) {
		t.Error("Sort and Set disagree on order")
	}

	first := want.All()[0]
	if first.File != "build.rs" {
		t.Errorf("first annotation file = %s, want build.rs", first.File)
	}
	// Same file/line/no column: error must come before notice.
	var e, n int
	for i, a := range want.All() {
		if a.File == "src/lib.rs" && a.Line == 4 && a.Col == 0 {
			if a.Severity == SeverityError {
				e = i
			} else {
				n = i
			}
		}
	}
	if e > n {
		t.Error("expected error before notice at identical location")
	}
}

func TestSetInsertDedup(t *testing.T) {
	a := Annotation{Severity: SeverityWarning, File: "a.rs", Line: 1, Message: "m"}
	var s Set
	if !s.Insert(a) {
		t.Fatal("first insert should add")
	}
	if s.Insert(a) {
		t.Error("second insert of equal annotation should be a no-op")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	other := a
	other.Message = "different"
	if !s.Insert(other) {
		t.Error("annotation differing only in message is distinct")
	}
	if !s.Contains(a) || !s.Contains(other) {
		t.Error("Contains should find both")
	}
}

func TestSetMax(t *testing.T) {
	var s Set
	if _, ok := s.Max(); ok {
		t.Error("empty set has no max")
	}
	s.Insert(Annotation{Severity: SeverityNotice, File: "a.rs", Line: 1})
	s.Insert(Annotation{Severity: SeverityWarning, File: "b.rs", Line: 1})
	if got, ok := s.Max(); !ok || got != SeverityWarning {
		t.Errorf("Max() = %s, %v; want warning, true", got, ok)
	}
}

// --- Validation tests ---

func TestValidate(t *testing.T) {
	valid := Annotation{Severity: SeverityError, File: "a.rs", Line: 2, EndLine: 3, Col: 1, EndColumn: 4}
	if errs := Validate(valid); len(errs) != 0 {
		t.Errorf("expected valid annotation, got %v", errs)
	}

	tests := []struct {
		name  string
		a     Annotation
		field string
	}{
		{"zero line", Annotation{File: "a.rs"}, "line"},
		{"no file", Annotation{Line: 1}, "file"},
		{"end before start", Annotation{File: "a.rs", Line: 5, EndLine: 4}, "endLine"},
		{"endColumn without col", Annotation{File: "a.rs", Line: 1, EndColumn: 4}, "endColumn"},
		{"bad severity", Annotation{Severity: Severity(7), File: "a.rs", Line: 1}, "severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.a)
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected violation on %s, got %v", tt.field, errs)
			}
		})
	}
}

func withLine(a Annotation, line int) Annotation       { a.Line = line; return a }
func withCol(a Annotation, col int) Annotation         { a.Col = col; return a }
func withSeverity(a Annotation, s Severity) Annotation { a.Severity = s; return a }
func withMessage(a Annotation, m string) Annotation    { a.Message = m; return a }
