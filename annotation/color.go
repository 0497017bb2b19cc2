package annotation

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an annotation color. The canonical form is a "#RRGGBB" hex
// string; RGB exposes normalized channels in [0,1] for rendering into
// the output document.
type Color struct {
	hex string
	c   colorful.Color
}

// ParseColor parses a "#RRGGBB" string. Shorthand "#RGB" and alpha
// forms are rejected; the model stores exactly one canonical shape.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q is not of the form #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	return Color{hex: c.Hex(), c: c}, nil
}

// MustColor is ParseColor for compile-time constants; it panics on a
// malformed string.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB returns the normalized channels, each in [0,1].
func (c Color) RGB() (r, g, b float64) { return c.c.R, c.c.G, c.c.B }

// Hex returns the canonical lowercase "#rrggbb" form.
func (c Color) Hex() string { return c.hex }

// IsZero reports whether the color was never parsed. The zero Color is
// not a valid annotation color.
func (c Color) IsZero() bool { return c.hex == "" }

func (c Color) String() string { return c.hex }
