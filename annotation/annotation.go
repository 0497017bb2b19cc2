// Package annotation defines the markup model: the closed set of
// annotation variants a user can place on a rendered page, and the
// ordered sequence that accumulates them during an editing session.
package annotation

import (
	"errors"
	"fmt"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

// DefaultStrokeWidth is the freehand stroke width, in viewport units,
// applied when a path is committed without an explicit width.
const DefaultStrokeWidth = 2.0

// Annotation is a single committed markup element. The union is closed:
// Highlight, FreehandPath and TextNote are the only variants, and every
// dispatch site switches over all three.
type Annotation interface {
	// PageNumber reports the 1-based page the annotation targets.
	PageNumber() int

	// Validate checks the variant's structural invariants.
	Validate() error

	annotation()
}

// Highlight is a translucent rectangle defined by two opposite corners
// in viewport space. Corner order is not significant; normalization to
// min/max happens at export time.
type Highlight struct {
	Page  int
	Start coords.Point
	End   coords.Point
	Color Color
}

func (h Highlight) PageNumber() int { return h.Page }
func (Highlight) annotation()       {}

func (h Highlight) Validate() error {
	if h.Page < 1 {
		return fmt.Errorf("highlight: page %d is not positive", h.Page)
	}
	if h.Color.IsZero() {
		return errors.New("highlight: color not set")
	}
	return nil
}

// FreehandPath is a polyline sampled at pointer-move resolution. Points
// are kept raw, without deduplication or resampling. A path holds at
// least one point; a single-point path is legal and renders nothing.
type FreehandPath struct {
	Page        int
	Points      []coords.Point
	Color       Color
	StrokeWidth float64
}

func (p FreehandPath) PageNumber() int { return p.Page }
func (FreehandPath) annotation()       {}

func (p FreehandPath) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("path: page %d is not positive", p.Page)
	}
	if len(p.Points) < 1 {
		return errors.New("path: no points")
	}
	if p.StrokeWidth <= 0 {
		return fmt.Errorf("path: stroke width %g is not positive", p.StrokeWidth)
	}
	if p.Color.IsZero() {
		return errors.New("path: color not set")
	}
	return nil
}

// NewFreehandPath builds a path annotation, applying DefaultStrokeWidth
// when width is zero or negative.
func NewFreehandPath(page int, points []coords.Point, color Color, width float64) FreehandPath {
	if width <= 0 {
		width = DefaultStrokeWidth
	}
	return FreehandPath{Page: page, Points: points, Color: color, StrokeWidth: width}
}

// TextNote is a literal text label anchored at a single viewport point.
type TextNote struct {
	Page     int
	Position coords.Point
	Text     string
	Color    Color
}

func (n TextNote) PageNumber() int { return n.Page }
func (TextNote) annotation()       {}

func (n TextNote) Validate() error {
	if n.Page < 1 {
		return fmt.Errorf("note: page %d is not positive", n.Page)
	}
	if n.Text == "" {
		return errors.New("note: empty text")
	}
	if n.Color.IsZero() {
		return errors.New("note: color not set")
	}
	return nil
}
