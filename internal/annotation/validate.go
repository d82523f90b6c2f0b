package annotation

import "fmt"

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the structural invariants of an annotation.
func Validate(a Annotation) []ValidationError {
	var errs []ValidationError

	if !a.Severity.Valid() {
		errs = append(errs, ValidationError{"severity", fmt.Sprintf("invalid: %d", int(a.Severity))})
	}
	if a.File == "" {
		errs = append(errs, ValidationError{"file", "required"})
	}
	if a.Line < 1 {
		errs = append(errs, ValidationError{"line", fmt.Sprintf("must be >= 1, got %d", a.Line)})
	}
	if a.EndLine < 0 || (a.EndLine != 0 && a.EndLine < a.Line) {
		errs = append(errs, ValidationError{"endLine", fmt.Sprintf("%d is before line %d", a.EndLine, a.Line)})
	}
	if a.Col < 0 {
		errs = append(errs, ValidationError{"col", fmt.Sprintf("must be >= 1, got %d", a.Col)})
	}
	if a.EndColumn < 0 {
		errs = append(errs, ValidationError{"endColumn", fmt.Sprintf("must be >= 1, got %d", a.EndColumn)})
	}
	if a.EndColumn != 0 && a.Col == 0 {
		errs = append(errs, ValidationError{"endColumn", "set without col"})
	}

	return errs
}
