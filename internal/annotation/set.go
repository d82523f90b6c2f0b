package annotation

import "slices"

// Set is an ordered set of annotations. Iteration follows Compare.
// The zero value is ready to use.
type Set struct {
	items []Annotation
}

// Insert adds a to the set. It reports false if an equal annotation
// was already present.
func (s *Set) Insert(a Annotation) bool {
	i, found := slices.BinarySearchFunc(s.items, a, Compare)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, a)
	return true
}

// Contains reports whether an equal annotation is in the set.
func (s *Set) Contains(a Annotation) bool {
	_, found := slices.BinarySearchFunc(s.items, a, Compare)
	return found
}

func (s *Set) Len() int { return len(s.items) }

// All returns the annotations in order. The slice must not be modified.
func (s *Set) All() []Annotation { return s.items }

// Max returns the highest severity in the set, and false if it is empty.
func (s *Set) Max() (Severity, bool) {
	if len(s.items) == 0 {
		return SeverityNotice, false
	}
	maxSev := SeverityNotice
	for _, a := range s.items {
		maxSev = max(maxSev, a.Severity)
	}
	return maxSev, true
}
