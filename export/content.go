package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

// HighlightOpacity is the fill alpha burned into highlight rectangles.
const HighlightOpacity = 0.35

// BaseNoteFontSize is the note font size at a viewport matching the
// page width exactly; actual size scales with pageWidth/viewportWidth.
const BaseNoteFontSize = 12.0

// overlayContent is a page's worth of drawing operators plus the
// resources they reference.
type overlayContent struct {
	ops     []byte
	alphas  []float64 // ExtGState /ca values, /GS1.. in slice order
	useFont bool      // content references /F1
	points  int       // viewport points projected into page space
}

func (c *overlayContent) empty() bool { return len(c.ops) == 0 }

// contentBuilder assembles overlay operators in annotation order, which
// is the visual stacking order: later annotations draw on top.
type contentBuilder struct {
	buf     bytes.Buffer
	proj    *coords.Projector
	gsNames map[float64]string
	alphas  []float64
	useFont bool

	noteFontSize float64
	strokeRatio  float64
	points       int
}

// buildOverlay renders the snapshot into page-space operators. The
// projector carries the viewport-to-page transform; sizes (font,
// stroke) scale by pageWidth/viewportWidth so output proportions match
// what the viewport showed.
func buildOverlay(anns []annotation.Annotation, proj *coords.Projector) (*overlayContent, error) {
	vp := proj.Viewport()
	page := proj.Page()

	b := &contentBuilder{
		proj:         proj,
		gsNames:      make(map[float64]string),
		noteFontSize: BaseNoteFontSize * page.Width / vp.Width,
		strokeRatio:  page.Width / vp.Width,
	}

	for _, a := range anns {
		switch v := a.(type) {
		case annotation.Highlight:
			b.highlight(v)
		case annotation.FreehandPath:
			b.path(v)
		case annotation.TextNote:
			b.note(v)
		default:
			return nil, fmt.Errorf("unhandled annotation variant %T", a)
		}
	}

	return &overlayContent{ops: b.buf.Bytes(), alphas: b.alphas, useFont: b.useFont, points: b.points}, nil
}

// gsName returns the ExtGState name for an alpha, registering it on
// first use.
func (b *contentBuilder) gsName(alpha float64) string {
	if name, ok := b.gsNames[alpha]; ok {
		return name
	}
	name := fmt.Sprintf("/GS%d", len(b.alphas)+1)
	b.gsNames[alpha] = name
	b.alphas = append(b.alphas, alpha)
	return name
}

// projectedRect maps two opposite viewport corners into page space and
// normalizes them, so corner order never matters.
func projectedRect(proj *coords.Projector, a, c coords.Point) r2.Rect {
	pa := proj.Project(a)
	pc := proj.Project(c)
	return r2.RectFromPoints(r2.Point{X: pa.X, Y: pa.Y}, r2.Point{X: pc.X, Y: pc.Y})
}

func (b *contentBuilder) highlight(h annotation.Highlight) {
	rect := projectedRect(b.proj, h.Start, h.End)
	r, g, bl := h.Color.RGB()
	b.points += 2

	b.buf.WriteString("q\n")
	fmt.Fprintf(&b.buf, "%s gs\n", b.gsName(HighlightOpacity))
	fmt.Fprintf(&b.buf, "%.3f %.3f %.3f rg\n", r, g, bl)
	fmt.Fprintf(&b.buf, "%.2f %.2f %.2f %.2f re\n",
		rect.X.Lo, rect.Y.Lo, rect.X.Hi-rect.X.Lo, rect.Y.Hi-rect.Y.Lo)
	b.buf.WriteString("f\nQ\n")
}

func (b *contentBuilder) path(p annotation.FreehandPath) {
	// A single point has no segment to stroke; skip without error.
	if len(p.Points) < 2 {
		return
	}
	r, g, bl := p.Color.RGB()
	b.points += len(p.Points)

	b.buf.WriteString("q\n")
	fmt.Fprintf(&b.buf, "%.3f %.3f %.3f RG\n", r, g, bl)
	fmt.Fprintf(&b.buf, "%.2f w\n", p.StrokeWidth*b.strokeRatio)
	b.buf.WriteString("1 J\n1 j\n")

	first := b.proj.Project(p.Points[0])
	fmt.Fprintf(&b.buf, "%.2f %.2f m\n", first.X, first.Y)
	for _, pt := range p.Points[1:] {
		proj := b.proj.Project(pt)
		fmt.Fprintf(&b.buf, "%.2f %.2f l\n", proj.X, proj.Y)
	}
	b.buf.WriteString("S\nQ\n")
}

func (b *contentBuilder) note(n annotation.TextNote) {
	pos := b.proj.Project(n.Position)
	r, g, bl := n.Color.RGB()
	b.useFont = true
	b.points++

	b.buf.WriteString("BT\n")
	fmt.Fprintf(&b.buf, "/F1 %.2f Tf\n", b.noteFontSize)
	fmt.Fprintf(&b.buf, "%.3f %.3f %.3f rg\n", r, g, bl)
	fmt.Fprintf(&b.buf, "%.2f %.2f Td\n", pos.X, pos.Y)

	leading := b.noteFontSize * 1.2
	for i, line := range strings.Split(n.Text, "\n") {
		if i > 0 {
			fmt.Fprintf(&b.buf, "0 %.2f Td\n", -leading)
		}
		fmt.Fprintf(&b.buf, "(%s) Tj\n", escapeText(line))
	}
	b.buf.WriteString("ET\n")
}

// escapeText escapes the characters with meaning inside a PDF literal
// string. Backslash first, then the parentheses.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
