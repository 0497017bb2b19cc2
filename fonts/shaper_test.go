package fonts_test

import (
	"math"
	"testing"

	"github.com/go-text/typesetting/language"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/fonts"
)

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect language.Script
	}{
		{"Latin", "Hello World", language.Latin},
		{"Arabic", "مرحبا بالعالم", language.Arabic},
		{"Hebrew", "שלום עולם", language.Hebrew},
		{"Cyrillic", "Привет мир", language.Cyrillic},
		{"Greek", "Γειά σου Κόσμε", language.Greek},
		{"Han", "你好世界", language.Han},
		{"Hangul", "안녕하세요", language.Hangul},
		{"Mixed Latin dominant", "Hello World مرحبا", language.Latin},
		{"Mixed Arabic dominant", "مرحبا بالعالم Hello", language.Arabic},
		{"Digits only fall back to Latin", "12345", language.Latin},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fonts.DetectScript([]rune(tc.input))
			if got != tc.expect {
				t.Errorf("Expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestMeasurerWidth(t *testing.T) {
	m, err := fonts.NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	if w := m.Width("", 12); w != 0 {
		t.Fatalf("empty width = %g, want 0", w)
	}

	short := m.Width("hi", 12)
	long := m.Width("hi there, a much longer note", 12)
	if short <= 0 {
		t.Fatalf("short width = %g, want > 0", short)
	}
	if long <= short {
		t.Fatalf("longer text measured %g, not wider than %g", long, short)
	}

	// Advances scale linearly with the font size.
	base := m.Width("annotated", 12)
	doubled := m.Width("annotated", 24)
	if math.Abs(doubled-2*base) > 1e-9 {
		t.Fatalf("Width at 24 = %g, want exactly double %g", doubled, base)
	}
}

func TestMeasurerMultiline(t *testing.T) {
	m, err := fonts.NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	w1, h1 := m.Measure("one line", 10)
	if h1 != 10*fonts.LineHeight {
		t.Fatalf("single line height = %g, want %g", h1, 10*fonts.LineHeight)
	}

	w2, h2 := m.Measure("one line\nand a second, longer line", 10)
	if h2 != 2*10*fonts.LineHeight {
		t.Fatalf("two line height = %g, want %g", h2, 2*10*fonts.LineHeight)
	}
	if w2 <= w1 {
		t.Fatalf("max line width = %g, want wider than %g", w2, w1)
	}
}
