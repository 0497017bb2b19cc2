// Package coords maps between the on-screen viewport space (origin
// top-left, y downward) and the page-native space (origin bottom-left,
// y upward) under fit-within letterbox scaling.
package coords

import (
	"errors"
	"fmt"
	"math"
)

// Point is a location in either viewport or page space; the space is
// implicit from context and must never be mixed without an explicit
// transformation.
type Point struct{ X, Y float64 }

// Matrix is a PDF-style affine transform [a b c d e f].
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Multiply returns the transform that applies m first, then o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2], m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2], m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4], m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det, (m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }

// ErrInvalidGeometry reports degenerate viewport or page dimensions
// that would make the projection undefined. It is checked before any
// division so NaN or Inf never reaches an output coordinate.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Viewport is the size of the interactive overlay surface, origin at
// the surface's top-left corner.
type Viewport struct{ Width, Height float64 }

// PageSize is the native size of a document page, origin bottom-left.
type PageSize struct{ Width, Height float64 }

// Projector maps viewport points into page space. The page is assumed
// rendered inside the viewport at the largest aspect-preserving size,
// centered, with letterbox bands on the constrained axis. Projection is
// pure: same input, same output, no hidden state.
type Projector struct {
	viewport Viewport
	page     PageSize
	scale    float64

	renderedW float64
	renderedH float64
	offsetX   float64
	offsetY   float64
}

// NewProjector validates the geometry and precomputes the letterbox
// placement. scale multiplies the projected coordinates; zero means 1.
func NewProjector(vp Viewport, page PageSize, scale float64) (*Projector, error) {
	if err := checkDims(vp, page); err != nil {
		return nil, err
	}
	if scale == 0 {
		scale = 1
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: scale %g", ErrInvalidGeometry, scale)
	}

	p := &Projector{viewport: vp, page: page, scale: scale}

	viewportAspect := vp.Width / vp.Height
	pageAspect := page.Width / page.Height
	if viewportAspect > pageAspect {
		// Viewport relatively wider: height constrains the rendered page.
		p.renderedH = vp.Height
		p.renderedW = vp.Height * pageAspect
	} else {
		p.renderedW = vp.Width
		p.renderedH = vp.Width / pageAspect
	}
	p.offsetX = (vp.Width - p.renderedW) / 2
	p.offsetY = (vp.Height - p.renderedH) / 2
	return p, nil
}

func checkDims(vp Viewport, page PageSize) error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"viewport width", vp.Width},
		{"viewport height", vp.Height},
		{"page width", page.Width},
		{"page height", page.Height},
	} {
		if d.v <= 0 || math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return fmt.Errorf("%w: %s %g", ErrInvalidGeometry, d.name, d.v)
		}
	}
	return nil
}

// Project maps a viewport point into page space, flipping the vertical
// axis so the result is relative to the page's bottom-left origin.
func (p *Projector) Project(pt Point) Point {
	adjustedX := pt.X - p.offsetX
	adjustedY := pt.Y - p.offsetY
	return Point{
		X: adjustedX / p.renderedW * p.page.Width * p.scale,
		Y: p.page.Height - adjustedY/p.renderedH*p.page.Height*p.scale,
	}
}

// Unproject maps a page point back into viewport space.
func (p *Projector) Unproject(pt Point) Point {
	inv, err := p.Matrix().Inverse()
	if err != nil {
		// Unreachable: the constructor guarantees nonzero axis scales.
		panic(err)
	}
	return inv.Transform(pt)
}

// Matrix returns the projection as an affine transform, composed from
// the same translate and scale steps Project applies pointwise.
func (p *Projector) Matrix() Matrix {
	kx := p.page.Width * p.scale / p.renderedW
	ky := p.page.Height * p.scale / p.renderedH
	return Translate(-p.offsetX, -p.offsetY).
		Multiply(Scale(kx, -ky)).
		Multiply(Translate(0, p.page.Height))
}

// Rendered reports the letterboxed page size inside the viewport.
func (p *Projector) Rendered() (width, height float64) { return p.renderedW, p.renderedH }

// Offsets reports the centering bands between the viewport edges and
// the rendered page.
func (p *Projector) Offsets() (x, y float64) { return p.offsetX, p.offsetY }

// Viewport returns the viewport the projector was built for.
func (p *Projector) Viewport() Viewport { return p.viewport }

// Page returns the page size the projector was built for.
func (p *Projector) Page() PageSize { return p.page }

// Scale returns the coordinate multiplier.
func (p *Projector) Scale() float64 { return p.scale }

// FitScale is the uniform scale at which a page fits inside a viewport,
// the smaller of the two axis ratios.
func FitScale(vp Viewport, page PageSize) (float64, error) {
	if err := checkDims(vp, page); err != nil {
		return 0, err
	}
	return math.Min(vp.Width/page.Width, vp.Height/page.Height), nil
}
