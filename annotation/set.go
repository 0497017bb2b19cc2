package annotation

import (
	"fmt"
	"sync"
)

// Set is the ordered sequence of committed annotations for one editing
// session. It is append-only: committed annotations are never mutated
// in place, and Clear is the only bulk removal. Sequence order is the
// visual stacking order at export, later entries on top.
//
// Geometry stays in the viewport space that was active when each
// annotation was committed. The set does not re-normalize on viewport
// resize, so positions exported under a different viewport size follow
// the export-time transform, not a size-invariant record.
type Set struct {
	mu    sync.Mutex
	items []Annotation
}

func NewSet() *Set { return &Set{} }

// Add validates a and appends it to the sequence. A failed validation
// leaves the sequence untouched.
func (s *Set) Add(a Annotation) error {
	if a == nil {
		return fmt.Errorf("annotation is nil")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("rejecting annotation: %w", err)
	}
	s.mu.Lock()
	s.items = append(s.items, a)
	s.mu.Unlock()
	return nil
}

// Len reports the number of committed annotations.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns a copy of the sequence in commit order. Exports read
// from a snapshot so capture can keep committing while one is in flight.
func (s *Set) Snapshot() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the sequence.
func (s *Set) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}
