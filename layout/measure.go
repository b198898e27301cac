package layout

import (
	"strings"

	"golang.org/x/image/font"
)

// LineSpacing is the gap in pixels between two lines of a text block.
const LineSpacing = 4

// Measured is the pixel bounding box of a text block as it will be drawn.
type Measured struct {
	Lines      []string
	LineWidths []int
	Width      int
	Height     int
	LineHeight int
	Ascent     int
}

// LineCount is the number of lines in the block.
func (m Measured) LineCount() int { return len(m.Lines) }

// Measure computes the bounding box of text drawn with face. Empty lines are
// measured as a single space so they keep a full line height.
func Measure(text string, face font.Face) Measured {
	metrics := face.Metrics()
	m := Measured{
		Lines:      splitLines(text),
		LineHeight: metrics.Height.Ceil(),
		Ascent:     metrics.Ascent.Ceil(),
	}
	m.LineWidths = make([]int, len(m.Lines))
	for i, line := range m.Lines {
		w := font.MeasureString(face, line).Ceil()
		m.LineWidths[i] = w
		if w > m.Width {
			m.Width = w
		}
	}
	n := len(m.Lines)
	m.Height = n*m.LineHeight + (n-1)*LineSpacing
	return m
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = " "
		}
	}
	return lines
}
