// Package export turns an annotation snapshot plus the source document
// into a finished, annotated PDF.
//
// The pipeline is all or nothing: any failure yields an *Error naming
// the failed stage, no artifact is produced, and the annotation
// sequence the snapshot came from is left untouched.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/observability"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/source"
)

// SuggestedFilename is the download name for exported artifacts.
const SuggestedFilename = "annotated-document.pdf"

// ErrInFlight reports that an export is already running. Concurrent
// requests are rejected, never queued or superseded.
var ErrInFlight = errors.New("export already in flight")

// FailureClass names the export pipeline stage that failed.
type FailureClass string

const (
	FetchFailure     FailureClass = "fetch"
	ParseFailure     FailureClass = "parse"
	InvalidGeometry  FailureClass = "geometry"
	SerializeFailure FailureClass = "serialize"
)

// Error is an export pipeline failure tagged with its stage.
type Error struct {
	Class FailureClass
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("export %s failure: %v", e.Class, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func failed(class FailureClass, err error) error { return &Error{Class: class, Err: err} }

// Snapshotter yields a stable copy of the current annotation sequence.
// *annotation.Set satisfies it.
type Snapshotter interface {
	Snapshot() []annotation.Annotation
}

// Result is a finished export artifact.
type Result struct {
	Data        []byte
	Filename    string
	Pages       int
	Annotations int
}

// Engine runs exports against a fixed source document.
type Engine struct {
	fetcher source.Fetcher
	log     observability.Logger
	tracer  observability.Tracer
	markup  bool

	busy atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithTracer(tr observability.Tracer) Option {
	return func(e *Engine) { e.tracer = tr }
}

// WithNativeMarkup additionally attaches highlights as real markup
// annotations, so downstream tools see them as annotations rather than
// painted rectangles. Ink and notes always render in the overlay.
func WithNativeMarkup() Option {
	return func(e *Engine) { e.markup = true }
}

func NewEngine(fetcher source.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		log:     observability.NopLogger{},
		tracer:  observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export snapshots the annotation sequence, fetches the source
// document, composites the annotations onto its first page and returns
// the artifact. The snapshot is taken before the first fallible step,
// so annotations committed mid-export do not leak into the result.
//
// Only one export may run at a time; a second concurrent call returns
// ErrInFlight.
func (e *Engine) Export(ctx context.Context, src Snapshotter, vp coords.Viewport) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer e.busy.Store(false)

	ctx, span := e.tracer.StartSpan(ctx, "export")
	defer span.Finish()

	snapshot := src.Snapshot()
	span.SetTag("annotations", len(snapshot))

	start := time.Now()
	res, err := e.run(ctx, snapshot, vp)
	if err != nil {
		span.SetError(err)
		class := FailureClass("internal")
		var xe *Error
		if errors.As(err, &xe) {
			class = xe.Class
		}
		e.log.Error("export failed",
			observability.String("class", string(class)),
			observability.Error("err", err),
			observability.Int(observability.MetricExportFailures, 1))
		return nil, err
	}

	e.log.Info("export complete",
		observability.String("filename", res.Filename),
		observability.Int("annotations", res.Annotations),
		observability.Int("pages", res.Pages),
		observability.Float64(observability.MetricExportTime, time.Since(start).Seconds()))
	return res, nil
}

func (e *Engine) run(ctx context.Context, snapshot []annotation.Annotation, vp coords.Viewport) (*Result, error) {
	fetchStart := time.Now()
	data, err := e.fetcher.Fetch(ctx)
	if err != nil {
		return nil, failed(FetchFailure, err)
	}
	e.log.Debug("source fetched",
		observability.Int(observability.MetricFetchBytes, len(data)),
		observability.Float64(observability.MetricFetchTime, time.Since(fetchStart).Seconds()))

	tmpDir, err := os.MkdirTemp("", "annotate-export-*")
	if err != nil {
		return nil, failed(SerializeFailure, err)
	}
	defer os.RemoveAll(tmpDir)

	workPath := filepath.Join(tmpDir, "annotated.pdf")
	if err := os.WriteFile(workPath, data, 0o644); err != nil {
		return nil, failed(SerializeFailure, err)
	}

	page, pages, err := pageDims(workPath)
	if err != nil {
		return nil, failed(ParseFailure, err)
	}

	// Validate the geometry up front, even when there is nothing to
	// draw, so a degenerate viewport never reaches a division.
	scale, err := coords.FitScale(vp, page)
	if err != nil {
		return nil, failed(InvalidGeometry, err)
	}

	// Zero annotations export the source exactly as fetched.
	if len(snapshot) == 0 {
		return &Result{Data: data, Filename: SuggestedFilename, Pages: pages}, nil
	}

	proj, err := coords.NewProjector(vp, page, scale)
	if err != nil {
		return nil, failed(InvalidGeometry, err)
	}

	content, err := buildOverlay(snapshot, proj)
	if err != nil {
		return nil, failed(SerializeFailure, err)
	}
	e.log.Debug("overlay built",
		observability.Int("annotations", len(snapshot)),
		observability.Int(observability.MetricProjectedPoints, content.points))

	if !content.empty() {
		overlayPath := filepath.Join(tmpDir, "overlay.pdf")
		if err := writeOverlayPDF(overlayPath, content, page); err != nil {
			return nil, failed(SerializeFailure, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, failed(SerializeFailure, err)
		}
		if err := stampOverlay(workPath, overlayPath); err != nil {
			return nil, failed(SerializeFailure, err)
		}
	}

	if e.markup {
		if err := addMarkup(workPath, markupAnnotations(snapshot, proj)); err != nil {
			return nil, failed(SerializeFailure, err)
		}
	}

	out, err := os.ReadFile(workPath)
	if err != nil {
		return nil, failed(SerializeFailure, err)
	}
	return &Result{Data: out, Filename: SuggestedFilename, Pages: pages, Annotations: len(snapshot)}, nil
}
