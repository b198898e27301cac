package layout

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"label-server/core"
)

// Render lays out req and draws it onto a fresh white grayscale canvas.
func Render(req core.LayoutRequest) (*image.Gray, error) {
	p, err := Compute(req)
	if err != nil {
		return nil, err
	}
	return Draw(p, req.Face, req.Align), nil
}

// Draw rasterises a computed plan. Lines are aligned inside the text block.
func Draw(p Plan, face font.Face, align core.Align) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
	}
	m := p.Text
	for i, line := range m.Lines {
		x := p.Origin.X
		switch align {
		case core.AlignCenter:
			x += (m.Width - m.LineWidths[i]) / 2
		case core.AlignRight:
			x += m.Width - m.LineWidths[i]
		}
		y := p.Origin.Y + i*(m.LineHeight+LineSpacing) + m.Ascent
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
	}
	return dst
}
