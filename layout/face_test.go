package layout

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// monoFace advances every rune by 10px and reports a 20px line
// (ascent 16, descent 4). It draws nothing.
type monoFace struct{}

func (monoFace) Close() error { return nil }

func (monoFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, nil, image.Point{}, fixed.I(10), false
}

func (monoFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.R(0, -16, 10, 4), fixed.I(10), true
}

func (monoFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return fixed.I(10), true }

func (monoFace) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (monoFace) Metrics() font.Metrics {
	return font.Metrics{Height: fixed.I(20), Ascent: fixed.I(16), Descent: fixed.I(4)}
}

func goFace(t *testing.T, size float64) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse goregular: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	t.Cleanup(func() { face.Close() })
	return face
}
