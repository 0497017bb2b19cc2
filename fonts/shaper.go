// Package fonts measures note text with the bundled face so callers
// can size text bounds without a rendering surface.
package fonts

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the multiplier applied to the font size when stacking
// measured lines.
const LineHeight = 1.2

// Measurer shapes text against the bundled Go Regular face and reports
// advance widths. Shaping state is reused between calls, so a Measurer
// must not be shared without the internal lock it already holds.
type Measurer struct {
	mu     sync.Mutex
	shaper shaping.HarfbuzzShaper
	proto  shaping.Input
}

// NewMeasurer parses the bundled face once and prepares a shaping run.
func NewMeasurer() (*Measurer, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("parsing bundled face: %w", err)
	}
	m := &Measurer{}
	m.proto.Face = face
	// Shape at 1000 units per em; advances come back in 1/1000 em and
	// scale linearly with the requested size.
	m.proto.Size = fixed.Int26_6(1000 * 64)
	m.proto.Language = language.DefaultLanguage()
	return m, nil
}

// Width returns the advance width of a single line of text rendered at
// the given font size.
func (m *Measurer) Width(text string, size float64) float64 {
	runes := []rune(text)
	if len(runes) == 0 || size <= 0 {
		return 0
	}
	return m.lineUnits(runes) / 1000.0 * size
}

// Measure returns the bounding box of text at the given font size,
// treating embedded newlines as line breaks.
func (m *Measurer) Measure(text string, size float64) (width, height float64) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if w := m.Width(line, size); w > width {
			width = w
		}
	}
	return width, float64(len(lines)) * size * LineHeight
}

func (m *Measurer) lineUnits(runes []rune) float64 {
	script := DetectScript(runes)

	in := m.proto
	in.Text = runes
	in.RunStart = 0
	in.RunEnd = len(runes)
	in.Script = script
	in.Direction = scriptDirection(script)

	m.mu.Lock()
	out := m.shaper.Shape(in)
	m.mu.Unlock()

	var units float64
	for _, g := range out.Glyphs {
		units += float64(g.XAdvance) / 64.0
	}
	return units
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript votes on the dominant script of the runes. Ties keep the
// earlier winner; text with no recognized script counts as Latin.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	best := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			best = script
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	}
	return language.Unknown
}
