package capture_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/capture"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

var red = annotation.MustColor("#FF0000")

func TestDrawGesture(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	in := capture.GestureInput{Tool: capture.ToolDraw, Color: red, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Move(coords.Point{X: 11, Y: 12})
	eng.Move(coords.Point{X: 11, Y: 12}) // duplicates are kept raw
	eng.Move(coords.Point{X: 14, Y: 20})

	committed, err := eng.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	path, ok := committed.(annotation.FreehandPath)
	if !ok {
		t.Fatalf("committed %T, want FreehandPath", committed)
	}
	wantPoints := []coords.Point{{X: 10, Y: 10}, {X: 11, Y: 12}, {X: 11, Y: 12}, {X: 14, Y: 20}}
	if diff := cmp.Diff(wantPoints, path.Points); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
	if path.StrokeWidth != annotation.DefaultStrokeWidth {
		t.Fatalf("StrokeWidth = %g, want default %g", path.StrokeWidth, annotation.DefaultStrokeWidth)
	}
	if set.Len() != 1 {
		t.Fatalf("set Len = %d, want 1", set.Len())
	}
}

func TestDrawClickCommitsSinglePoint(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	in := capture.GestureInput{Tool: capture.ToolDraw, Color: red, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 5, Y: 5}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	committed, err := eng.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	path, ok := committed.(annotation.FreehandPath)
	if !ok {
		t.Fatalf("committed %T, want FreehandPath", committed)
	}
	if len(path.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(path.Points))
	}
}

func TestHighlightGestureKeepsRawCorners(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	in := capture.GestureInput{Tool: capture.ToolHighlight, Color: red, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 50, Y: 40}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Move(coords.Point{X: 30, Y: 60})
	eng.Move(coords.Point{X: 10, Y: 10})

	committed, err := eng.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	hl, ok := committed.(annotation.Highlight)
	if !ok {
		t.Fatalf("committed %T, want Highlight", committed)
	}
	// Corners are committed in gesture order; min/max normalization is
	// an export concern.
	if hl.Start != (coords.Point{X: 50, Y: 40}) || hl.End != (coords.Point{X: 10, Y: 10}) {
		t.Fatalf("corners = %v..%v, want (50,40)..(10,10)", hl.Start, hl.End)
	}
}

func TestAbortFinalizesCapturedWork(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	in := capture.GestureInput{Tool: capture.ToolDraw, Color: red, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Move(coords.Point{X: 3, Y: 3})

	// Pointer leaving the surface runs the same finalize path as
	// pointer-up: work captured so far is committed, not dropped.
	committed, err := eng.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if committed == nil {
		t.Fatal("abort discarded the gesture")
	}
	if set.Len() != 1 {
		t.Fatalf("set Len = %d, want 1", set.Len())
	}
}

func TestStartDuringActiveGestureFinalizesPrevious(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	in := capture.GestureInput{Tool: capture.ToolDraw, Color: red, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Move(coords.Point{X: 1, Y: 1})

	if _, err := eng.Start(in, coords.Point{X: 100, Y: 100}); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("previous gesture not committed, set Len = %d", set.Len())
	}
	if _, err := eng.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("set Len = %d, want 2", set.Len())
	}
}

func TestSelectToolIsInert(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	req, err := eng.Start(capture.GestureInput{Tool: capture.ToolSelect, Color: red, Page: 1}, coords.Point{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if req != nil {
		t.Fatal("select tool should not request text input")
	}
	eng.Move(coords.Point{X: 9, Y: 9})
	committed, err := eng.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if committed != nil || set.Len() != 0 {
		t.Fatalf("select tool committed %v, set Len = %d", committed, set.Len())
	}
}

func TestTextToolDefersCommit(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	req, err := eng.Start(capture.GestureInput{Tool: capture.ToolText, Color: red, Page: 1}, coords.Point{X: 42, Y: 24})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if req == nil {
		t.Fatal("text tool should emit a TextRequest")
	}
	if req.Position != (coords.Point{X: 42, Y: 24}) || req.Page != 1 {
		t.Fatalf("request = %+v", req)
	}
	if set.Len() != 0 {
		t.Fatal("text click must not commit before confirmation")
	}

	committed, err := eng.ConfirmText("remember this")
	if err != nil {
		t.Fatalf("ConfirmText: %v", err)
	}
	note, ok := committed.(annotation.TextNote)
	if !ok {
		t.Fatalf("committed %T, want TextNote", committed)
	}
	if note.Text != "remember this" || note.Position != (coords.Point{X: 42, Y: 24}) {
		t.Fatalf("note = %+v", note)
	}
	if set.Len() != 1 {
		t.Fatalf("set Len = %d, want 1", set.Len())
	}
}

func TestTextConfirmEmptyCommitsNothing(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	if _, err := eng.Start(capture.GestureInput{Tool: capture.ToolText, Color: red, Page: 1}, coords.Point{X: 1, Y: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	committed, err := eng.ConfirmText("   \n\t")
	if err != nil {
		t.Fatalf("ConfirmText: %v", err)
	}
	if committed != nil || set.Len() != 0 {
		t.Fatal("whitespace-only text must commit nothing")
	}
	if _, pending := eng.PendingText(); pending {
		t.Fatal("request should be consumed by confirmation")
	}
}

func TestTextCancel(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	if _, err := eng.Start(capture.GestureInput{Tool: capture.ToolText, Color: red, Page: 1}, coords.Point{X: 1, Y: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := eng.CancelText(); err != nil {
		t.Fatalf("CancelText: %v", err)
	}
	if set.Len() != 0 {
		t.Fatal("cancelled text must commit nothing")
	}
	if _, err := eng.ConfirmText("late"); !errors.Is(err, capture.ErrNoPendingText) {
		t.Fatalf("err = %v, want ErrNoPendingText", err)
	}
}

func TestConfirmTextWithoutRequest(t *testing.T) {
	eng := capture.NewEngine(annotation.NewSet())
	if _, err := eng.ConfirmText("hi"); !errors.Is(err, capture.ErrNoPendingText) {
		t.Fatalf("err = %v, want ErrNoPendingText", err)
	}
	if err := eng.CancelText(); !errors.Is(err, capture.ErrNoPendingText) {
		t.Fatalf("err = %v, want ErrNoPendingText", err)
	}
}

func TestTextNormalizerApplied(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set, capture.WithTextNormalizer(strings.ToUpper))

	if _, err := eng.Start(capture.GestureInput{Tool: capture.ToolText, Color: red, Page: 1}, coords.Point{X: 1, Y: 1}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	committed, err := eng.ConfirmText("loud")
	if err != nil {
		t.Fatalf("ConfirmText: %v", err)
	}
	if note := committed.(annotation.TextNote); note.Text != "LOUD" {
		t.Fatalf("normalized text = %q, want %q", note.Text, "LOUD")
	}
}

func TestFailedCommitKeepsSequenceIntact(t *testing.T) {
	set := annotation.NewSet()
	eng := capture.NewEngine(set)

	// Zero color fails model validation at commit time; the engine must
	// fail closed without corrupting the sequence.
	in := capture.GestureInput{Tool: capture.ToolHighlight, Page: 1}
	if _, err := eng.Start(in, coords.Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Move(coords.Point{X: 5, Y: 5})
	if _, err := eng.Finish(); err == nil {
		t.Fatal("expected commit failure for zero color")
	}
	if set.Len() != 0 {
		t.Fatalf("set Len = %d, want 0", set.Len())
	}
	if eng.Active() {
		t.Fatal("engine should not stay active after a failed finish")
	}
}

func TestParseToolRoundTrip(t *testing.T) {
	for _, tool := range []capture.Tool{capture.ToolSelect, capture.ToolDraw, capture.ToolHighlight, capture.ToolText} {
		parsed, err := capture.ParseTool(tool.String())
		if err != nil {
			t.Fatalf("ParseTool(%q): %v", tool.String(), err)
		}
		if parsed != tool {
			t.Errorf("round trip %v -> %q -> %v", tool, tool.String(), parsed)
		}
	}
	if _, err := capture.ParseTool("lasso"); err == nil {
		t.Fatal("expected error for unknown tool name")
	}
}
