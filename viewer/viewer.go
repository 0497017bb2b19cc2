// Package viewer wires the capture, annotation, and export engines into
// one interactive editing session over a fetched document.
package viewer

import (
	"context"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/capture"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/export"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/fonts"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/notetext"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/observability"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/scripting"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/source"
)

// DefaultColor is the annotation color before the host selects one.
const DefaultColor = "#FF0000"

// Annotations land on the first page; placement beyond a single target
// page is not supported.
const targetPage = 1

// Box is the on-screen bounding box of the rendered document surface,
// as reported by the rendering collaborator on load and resize. Pointer
// coordinates arrive relative to the screen and are translated by the
// offsets before capture.
type Box struct {
	Width      float64
	Height     float64
	TopOffset  float64
	LeftOffset float64
}

// Session owns one annotate-and-export session. It is driven from a
// single goroutine, matching the event-callback model of an embedding
// viewer; the export pipeline is the only part that may be awaited
// elsewhere.
type Session struct {
	set      *annotation.Set
	capture  *capture.Engine
	exporter *export.Engine
	log      observability.Logger
	alert    func(string)
	measurer *fonts.Measurer

	box         Box
	tool        capture.Tool
	color       annotation.Color
	strokeWidth float64
}

var _ scripting.SessionAPI = (*Session)(nil)

type config struct {
	log    observability.Logger
	tracer observability.Tracer
	markup bool
	alert  func(string)
	color  annotation.Color
}

// Option configures a Session.
type Option func(*config)

func WithLogger(log observability.Logger) Option {
	return func(c *config) { c.log = log }
}

func WithTracer(tr observability.Tracer) Option {
	return func(c *config) { c.tracer = tr }
}

// WithNativeMarkup makes exports attach highlights as real markup
// annotations in addition to the burned overlay.
func WithNativeMarkup() Option {
	return func(c *config) { c.markup = true }
}

// WithAlert sets the hook macros reach through app.alert.
func WithAlert(fn func(string)) Option {
	return func(c *config) { c.alert = fn }
}

// WithDefaultColor overrides the initial annotation color.
func WithDefaultColor(col annotation.Color) Option {
	return func(c *config) { c.color = col }
}

// NewSession builds a session exporting against the given source
// document.
func NewSession(fetcher source.Fetcher, opts ...Option) *Session {
	cfg := config{
		log:    observability.NopLogger{},
		tracer: observability.NopTracer(),
		alert:  func(string) {},
		color:  annotation.MustColor(DefaultColor),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	set := annotation.NewSet()
	s := &Session{
		set:         set,
		log:         cfg.log,
		alert:       cfg.alert,
		tool:        capture.ToolSelect,
		color:       cfg.color,
		strokeWidth: annotation.DefaultStrokeWidth,
	}
	s.capture = capture.NewEngine(set,
		capture.WithLogger(cfg.log),
		capture.WithTextNormalizer(notetext.Normalize),
	)

	expOpts := []export.Option{export.WithLogger(cfg.log), export.WithTracer(cfg.tracer)}
	if cfg.markup {
		expOpts = append(expOpts, export.WithNativeMarkup())
	}
	s.exporter = export.NewEngine(fetcher, expOpts...)
	return s
}

// SetViewport records the rendered surface's box. Existing annotations
// keep their original viewport-relative coordinates; only the export
// transform changes.
func (s *Session) SetViewport(box Box) {
	s.box = box
	s.log.Debug("viewport updated",
		observability.Float64("width", box.Width),
		observability.Float64("height", box.Height),
	)
}

// Bounds returns the current surface box.
func (s *Session) Bounds() Box { return s.box }

// Viewport returns the capture surface size.
func (s *Session) Viewport() coords.Viewport {
	return coords.Viewport{Width: s.box.Width, Height: s.box.Height}
}

// SelectTool switches the active tool mode.
func (s *Session) SelectTool(t capture.Tool) { s.tool = t }

// Tool reports the active tool mode.
func (s *Session) Tool() capture.Tool { return s.tool }

// SetColor selects the color applied to subsequent commits.
func (s *Session) SetColor(hex string) error {
	col, err := annotation.ParseColor(hex)
	if err != nil {
		return err
	}
	s.color = col
	return nil
}

// Color reports the active annotation color.
func (s *Session) Color() annotation.Color { return s.color }

// SetStrokeWidth selects the width for subsequent freehand paths.
// Values at or below zero fall back to the default at commit time.
func (s *Session) SetStrokeWidth(w float64) { s.strokeWidth = w }

func (s *Session) localPoint(x, y float64) coords.Point {
	return coords.Point{X: x - s.box.LeftOffset, Y: y - s.box.TopOffset}
}

// PointerDown starts a gesture at screen coordinates. With the text
// tool active it returns a TextRequest for the host to collect input.
func (s *Session) PointerDown(x, y float64) (*capture.TextRequest, error) {
	in := capture.GestureInput{
		Tool:        s.tool,
		Color:       s.color,
		Page:        targetPage,
		StrokeWidth: s.strokeWidth,
	}
	return s.capture.Start(in, s.localPoint(x, y))
}

// PointerMove extends the active gesture.
func (s *Session) PointerMove(x, y float64) {
	s.capture.Move(s.localPoint(x, y))
}

// PointerUp finalizes the active gesture. Pointer-leave aborts route
// here too, so captured work is committed rather than dropped.
func (s *Session) PointerUp() (annotation.Annotation, error) {
	return s.capture.Finish()
}

// ConfirmText answers an outstanding TextRequest.
func (s *Session) ConfirmText(text string) (annotation.Annotation, error) {
	return s.capture.ConfirmText(text)
}

// CancelText dismisses an outstanding TextRequest.
func (s *Session) CancelText() error { return s.capture.CancelText() }

// PendingText reports the outstanding text request, if any.
func (s *Session) PendingText() (capture.TextRequest, bool) {
	return s.capture.PendingText()
}

// Preview exposes the live geometry of the active gesture for the host
// to render.
func (s *Session) Preview() (capture.Tool, []coords.Point, bool) {
	return s.capture.InProgress()
}

// Annotations returns a snapshot of the committed sequence.
func (s *Session) Annotations() []annotation.Annotation { return s.set.Snapshot() }

// Count reports how many annotations are committed.
func (s *Session) Count() int { return s.set.Len() }

// Clear empties the annotation sequence.
func (s *Session) Clear() {
	n := s.set.Len()
	s.set.Clear()
	s.log.Info("annotations cleared", observability.Int(observability.MetricAnnotationsCleared, n))
}

// Alert forwards a macro alert to the host.
func (s *Session) Alert(message string) { s.alert(message) }

// AddHighlight commits a highlight directly, bypassing gesture capture.
// Macros use this path; validation matches interactive commits.
func (s *Session) AddHighlight(start, end coords.Point) error {
	return s.set.Add(annotation.Highlight{
		Page:  targetPage,
		Start: start,
		End:   end,
		Color: s.color,
	})
}

// AddPath commits a freehand path directly.
func (s *Session) AddPath(points []coords.Point) error {
	return s.set.Add(annotation.NewFreehandPath(targetPage, points, s.color, s.strokeWidth))
}

// AddNote commits a text note directly. Text is normalized the same way
// as dialog input.
func (s *Session) AddNote(position coords.Point, text string) error {
	return s.set.Add(annotation.TextNote{
		Page:     targetPage,
		Position: position,
		Text:     notetext.Normalize(text),
		Color:    s.color,
	})
}

// NoteExtent estimates the on-screen box the text will occupy once
// committed as a note, so hosts can size the input dialog and preview.
func (s *Session) NoteExtent(text string) (width, height float64, err error) {
	if s.measurer == nil {
		s.measurer, err = fonts.NewMeasurer()
		if err != nil {
			return 0, 0, err
		}
	}
	w, h := s.measurer.Measure(notetext.Normalize(text), export.BaseNoteFontSize)
	return w, h, nil
}

// Export snapshots the annotation sequence and runs the export pipeline
// against the current viewport. Failures leave the sequence untouched
// and produce no artifact.
func (s *Session) Export(ctx context.Context) (*export.Result, error) {
	return s.exporter.Export(ctx, s.set, s.Viewport())
}
