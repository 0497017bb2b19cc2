package annotation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

func TestSetAppendsInOrder(t *testing.T) {
	s := NewSet()
	red := MustColor("#FF0000")

	first := Highlight{Page: 1, Start: coords.Point{X: 0, Y: 0}, End: coords.Point{X: 10, Y: 10}, Color: red}
	second := TextNote{Page: 1, Position: coords.Point{X: 5, Y: 5}, Text: "note", Color: red}
	third := NewFreehandPath(1, []coords.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, red, 0)

	for _, a := range []Annotation{first, second, third} {
		if err := s.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	got := s.Snapshot()
	want := []Annotation{first, second, third}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Color{})); diff != "" {
		t.Fatalf("snapshot order mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	s := NewSet()
	if err := s.Add(TextNote{Page: 1, Text: ""}); err == nil {
		t.Fatal("expected rejection of empty note")
	}
	if err := s.Add(nil); err == nil {
		t.Fatal("expected rejection of nil annotation")
	}
	if s.Len() != 0 {
		t.Fatalf("failed adds must not grow the sequence, Len = %d", s.Len())
	}
}

func TestSetSnapshotIsIsolated(t *testing.T) {
	s := NewSet()
	red := MustColor("#FF0000")
	if err := s.Add(Highlight{Page: 1, Start: coords.Point{X: 0, Y: 0}, End: coords.Point{X: 1, Y: 1}, Color: red}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	snap := s.Snapshot()
	if err := s.Add(TextNote{Page: 1, Text: "later", Color: red}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("snapshot grew after a later commit: len = %d", len(snap))
	}
}

func TestSetClear(t *testing.T) {
	s := NewSet()
	red := MustColor("#FF0000")
	for i := 0; i < 4; i++ {
		if err := s.Add(TextNote{Page: 1, Text: "n", Color: red}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", s.Len())
	}
	if got := s.Snapshot(); len(got) != 0 {
		t.Fatalf("snapshot after Clear has %d items", len(got))
	}
}
