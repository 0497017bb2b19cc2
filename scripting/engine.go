// Package scripting runs user macros against an annotation session.
package scripting

import (
	"context"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a macro in the context of the session.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterSession registers the annotation session API with the
	// engine.
	RegisterSession(session SessionAPI) error
}

// SessionAPI exposes the annotation session to macros. It provides a
// safe, controlled surface: scripts commit through the same validation
// as interactive gestures and cannot reach the document bytes.
type SessionAPI interface {
	// SetColor selects the color used by subsequent commits.
	SetColor(hex string) error

	// SetStrokeWidth selects the stroke width for subsequent paths.
	SetStrokeWidth(width float64)

	// AddHighlight commits a highlight spanning two opposite corners
	// in viewport coordinates.
	AddHighlight(start, end coords.Point) error

	// AddPath commits a freehand path through the given viewport
	// points.
	AddPath(points []coords.Point) error

	// AddNote commits a text note at a viewport position.
	AddNote(position coords.Point, text string) error

	// Viewport reports the current interactive surface size.
	Viewport() coords.Viewport

	// Count reports how many annotations are committed.
	Count() int

	// Clear empties the annotation sequence.
	Clear()

	// Alert shows a message (if supported by the embedding viewer).
	Alert(message string)
}
