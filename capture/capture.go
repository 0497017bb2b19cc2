// Package capture turns pointer gestures into committed annotations,
// one in-progress annotation at a time, governed by the tool mode the
// host supplies with each gesture.
package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/observability"
)

// Tool is the annotation tool mode active during a gesture.
type Tool int

const (
	ToolSelect Tool = iota
	ToolDraw
	ToolHighlight
	ToolText
)

var toolNames = map[Tool]string{
	ToolSelect:    "select",
	ToolDraw:      "draw",
	ToolHighlight: "highlight",
	ToolText:      "text",
}

func (t Tool) String() string {
	if s, ok := toolNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a mode name to its Tool.
func ParseTool(s string) (Tool, error) {
	for t, name := range toolNames {
		if name == s {
			return t, nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// Committer receives finalized annotations. *annotation.Set satisfies it.
type Committer interface {
	Add(annotation.Annotation) error
}

// TextRequest asks the host to collect note text at a clicked point.
// The host answers with ConfirmText or CancelText; nothing is committed
// until then.
type TextRequest struct {
	Page     int
	Position coords.Point
}

// GestureInput carries the external inputs the host resolves at
// gesture-start time. The engine never reads tool or color from ambient
// state.
type GestureInput struct {
	Tool  Tool
	Color annotation.Color
	Page  int

	// StrokeWidth applies to draw gestures; zero selects the default.
	StrokeWidth float64
}

// TextNormalizer rewrites note text before commit, e.g. flattening
// markdown or pasted HTML to plain lines.
type TextNormalizer func(string) string

// Engine is the gesture state machine. It expects pointer callbacks in
// order from a single input source and is not safe for concurrent use.
type Engine struct {
	sink      Committer
	log       observability.Logger
	normalize TextNormalizer

	active  bool
	in      GestureInput
	points  []coords.Point
	start   coords.Point
	current coords.Point

	textPending bool
	textReq     TextRequest
	textColor   annotation.Color
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithTextNormalizer sets the note text rewrite applied on ConfirmText.
func WithTextNormalizer(n TextNormalizer) Option {
	return func(e *Engine) { e.normalize = n }
}

// NewEngine builds a capture engine committing into sink.
func NewEngine(sink Committer, opts ...Option) *Engine {
	e := &Engine{sink: sink, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a gesture at pt. For the text tool it returns a
// TextRequest instead of tracking a drag. If a previous gesture is
// still active it is finalized first, never dropped.
func (e *Engine) Start(in GestureInput, pt coords.Point) (*TextRequest, error) {
	if e.active {
		if _, err := e.Finish(); err != nil {
			return nil, err
		}
	}

	switch in.Tool {
	case ToolSelect:
		return nil, nil
	case ToolDraw:
		e.active = true
		e.in = in
		e.points = []coords.Point{pt}
		return nil, nil
	case ToolHighlight:
		e.active = true
		e.in = in
		e.start = pt
		e.current = pt
		return nil, nil
	case ToolText:
		e.textPending = true
		e.textReq = TextRequest{Page: in.Page, Position: pt}
		e.textColor = in.Color
		return &e.textReq, nil
	default:
		return nil, fmt.Errorf("unknown tool %v", in.Tool)
	}
}

// Move extends the active gesture. Points are appended raw, without
// deduplication or resampling. Without an active gesture it is a no-op.
func (e *Engine) Move(pt coords.Point) {
	if !e.active {
		return
	}
	switch e.in.Tool {
	case ToolDraw:
		e.points = append(e.points, pt)
	case ToolHighlight:
		e.current = pt
	}
}

// Finish finalizes the active gesture and commits the result. Gesture
// abort (pointer leaving the surface) goes through the same path, so
// captured work is finalized rather than silently discarded. The
// committed annotation is returned, or nil when nothing was committed.
func (e *Engine) Finish() (annotation.Annotation, error) {
	if !e.active {
		return nil, nil
	}
	in := e.in
	e.active = false

	var a annotation.Annotation
	switch in.Tool {
	case ToolDraw:
		points := e.points
		e.points = nil
		if len(points) < 1 {
			return nil, nil
		}
		a = annotation.NewFreehandPath(in.Page, points, in.Color, in.StrokeWidth)
	case ToolHighlight:
		a = annotation.Highlight{Page: in.Page, Start: e.start, End: e.current, Color: in.Color}
	default:
		return nil, nil
	}

	if err := e.sink.Add(a); err != nil {
		return nil, fmt.Errorf("committing %s gesture: %w", in.Tool, err)
	}
	e.log.Debug("gesture committed",
		observability.String("tool", in.Tool.String()),
		observability.Int("page", in.Page),
		observability.Int(observability.MetricAnnotationsCommitted, 1),
	)
	return a, nil
}

// ErrNoPendingText reports a ConfirmText or CancelText with no text
// gesture outstanding.
var ErrNoPendingText = errors.New("no pending text request")

// ConfirmText commits the deferred text note. Empty text (after
// normalization) commits nothing and clears the request, mirroring a
// dialog dismissed with an empty field.
func (e *Engine) ConfirmText(text string) (annotation.Annotation, error) {
	if !e.textPending {
		return nil, ErrNoPendingText
	}
	req := e.textReq
	color := e.textColor
	e.textPending = false

	if e.normalize != nil {
		text = e.normalize(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	a := annotation.TextNote{Page: req.Page, Position: req.Position, Text: text, Color: color}
	if err := e.sink.Add(a); err != nil {
		return nil, fmt.Errorf("committing text note: %w", err)
	}
	e.log.Debug("text note committed", observability.Int("page", req.Page))
	return a, nil
}

// CancelText drops the pending text request without committing.
func (e *Engine) CancelText() error {
	if !e.textPending {
		return ErrNoPendingText
	}
	e.textPending = false
	return nil
}

// Active reports whether a drag gesture is in progress.
func (e *Engine) Active() bool { return e.active }

// PendingText returns the outstanding text request, if any.
func (e *Engine) PendingText() (TextRequest, bool) {
	return e.textReq, e.textPending
}

// InProgress exposes the live geometry of the active gesture so hosts
// can render a preview. The returned slice must not be retained.
func (e *Engine) InProgress() (tool Tool, points []coords.Point, ok bool) {
	if !e.active {
		return ToolSelect, nil, false
	}
	switch e.in.Tool {
	case ToolDraw:
		return ToolDraw, e.points, true
	case ToolHighlight:
		return ToolHighlight, []coords.Point{e.start, e.current}, true
	}
	return ToolSelect, nil, false
}
