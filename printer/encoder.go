package printer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"slices"
)

// Models lists the printer models a label can be encoded for.
var Models = []string{
	"QL-500", "QL-550", "QL-560", "QL-570", "QL-580N", "QL-650TD",
	"QL-700", "QL-710W", "QL-720NW", "QL-800", "QL-810W", "QL-820NWB",
	"QL-1050", "QL-1060N",
}

// ValidModel reports whether model is one of Models.
func ValidModel(model string) bool {
	return slices.Contains(Models, model)
}

// Options travel with a rendered label to the encoder.
type Options struct {
	Model     string
	LabelSize string
	Threshold int
	Cut       bool
	// Rotate is "0", "90" or "auto". With "auto" the encoder picks the
	// rotation that fits the die-cut stock.
	Rotate string
}

// Encoder turns a rendered label into device-specific raster commands.
type Encoder interface {
	Encode(img *image.Gray, opts Options) ([]byte, error)
}

// PNGEncoder writes the bilevel label as PNG. It is meant for file backends
// and dry runs; "auto" rotation leaves the image as rendered.
type PNGEncoder struct{}

func (PNGEncoder) Encode(img *image.Gray, opts Options) ([]byte, error) {
	if opts.Threshold < 0 || opts.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 0-255", opts.Threshold)
	}
	src := img
	if opts.Rotate == "90" {
		src = Rotate90(img)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Monochrome(src, opts.Threshold)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var bilevel = color.Palette{color.Black, color.White}

// Monochrome maps every pixel darker than threshold to black and the rest
// to white.
func Monochrome(img *image.Gray, threshold int) *image.Paletted {
	b := img.Bounds()
	dst := image.NewPaletted(b, bilevel)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(img.GrayAt(x, y).Y) >= threshold {
				dst.SetColorIndex(x, y, 1)
			}
		}
	}
	return dst
}

// Rotate90 rotates img 90° clockwise.
func Rotate90(img *image.Gray) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for x := 0; x < dst.Bounds().Dx(); x++ {
		for y := 0; y < dst.Bounds().Dy(); y++ {
			dst.SetGray(x, y, img.GrayAt(b.Min.X+y, b.Max.Y-1-x))
		}
	}
	return dst
}
