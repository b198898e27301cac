// Package layout computes the canvas size and text placement of a label and
// rasterises it. Every function here is pure: no state survives a call.
package layout

import (
	"fmt"
	"image"

	"label-server/core"
)

const (
	// MaxCanvasDots bounds either side of a canvas, about six times the
	// longest die-cut stock.
	MaxCanvasDots = 10000
	MaxFontSize   = 1000
)

// Plan is the outcome of laying out one request, before any pixel is drawn.
type Plan struct {
	Width  int
	Height int
	Origin image.Point
	Text   Measured
}

// Compute measures the text and decides canvas size and text origin.
func Compute(req core.LayoutRequest) (Plan, error) {
	if req.Face == nil {
		return Plan{}, core.ErrFontUnavailable
	}
	if req.FontSize <= 0 || req.FontSize > MaxFontSize {
		return Plan{}, fmt.Errorf("%w: font size %d", core.ErrInvalidParams, req.FontSize)
	}
	mg := req.Margins
	if mg.Top < 0 || mg.Bottom < 0 || mg.Left < 0 || mg.Right < 0 {
		return Plan{}, fmt.Errorf("%w: negative margin", core.ErrInvalidParams)
	}

	m := Measure(req.Text, req.Face)
	w, h, err := CanvasSize(req.Stock, req.Orientation, m, mg)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Width:  w,
		Height: h,
		Origin: Offset(req.Stock.Kind, req.Orientation, req.Align, w, h, m, mg),
		Text:   m,
	}, nil
}

// CanvasSize fixes the canvas dimensions. Endless stock grows along the feed
// axis to fit the text plus the margins on that axis; die-cut stock keeps its
// physical size and text overflow is left to the caller.
func CanvasSize(stock core.StockGeometry, o core.Orientation, m Measured, mg core.Margins) (int, int, error) {
	w, h := stock.Width, stock.Height
	if stock.Kind == core.Endless {
		var err error
		if o == core.Rotated {
			w, err = feed(m.Width, mg.Left, mg.Right)
		} else {
			h, err = feed(m.Height, mg.Top, mg.Bottom)
		}
		if err != nil {
			return 0, 0, err
		}
	}
	if w <= 0 || h <= 0 || w > MaxCanvasDots || h > MaxCanvasDots {
		return 0, 0, fmt.Errorf("%w: %dx%d", core.ErrInvalidGeometry, w, h)
	}
	return w, h, nil
}

// feed sums the extents along the feed axis of endless stock, refusing
// anything longer than MaxCanvasDots before it can overflow.
func feed(extents ...int) (int, error) {
	total := 0
	for _, v := range extents {
		if v > MaxCanvasDots-total {
			return 0, fmt.Errorf("%w: feed length exceeds %d dots", core.ErrInvalidGeometry, MaxCanvasDots)
		}
		total += v
	}
	return total, nil
}

// Offset returns the top-left corner of the text block on a w×h canvas.
// The result may be negative or push the text past the canvas edge.
func Offset(kind core.StockKind, o core.Orientation, align core.Align, w, h int, m Measured, mg core.Margins) image.Point {
	x := alignX(align, w, m.Width)
	centered := floorDiv(h-m.Height, 2) + floorDiv(mg.Top-mg.Bottom, 2)

	switch {
	case kind == core.Endless && o == core.Normal:
		return image.Pt(x, mg.Top)
	case kind == core.Endless:
		return image.Pt(mg.Left, centered)
	case o == core.Rotated:
		return image.Pt(x+floorDiv(mg.Left-mg.Right, 2), centered)
	default:
		return image.Pt(x, centered)
	}
}

func alignX(align core.Align, w, textW int) int {
	switch align {
	case core.AlignLeft:
		return 0
	case core.AlignRight:
		return max(w-textW, 0)
	default:
		return max(floorDiv(w-textW, 2), 0)
	}
}

// floorDiv rounds towards negative infinity so that a margin surplus on
// either side shifts the text by the same amount.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
