package labels

import "label-server/core"

// Resolve maps a label identifier and orientation to the initial canvas
// geometry. The larger printable dimension becomes the width; rotation then
// swaps the axes. For endless stock the open axis stays 0 until the layout
// engine sizes it from the measured text.
func Resolve(id string, o core.Orientation) (core.StockGeometry, error) {
	s, err := Lookup(id)
	if err != nil {
		return core.StockGeometry{}, err
	}
	return s.Geometry(o), nil
}

// Geometry applies the orientation rules to this stock's printable dots.
func (s Size) Geometry(o core.Orientation) core.StockGeometry {
	w, h := s.Printable[0], s.Printable[1]
	if h > w {
		w, h = h, w
	}
	if o == core.Rotated {
		w, h = h, w
	}
	return core.StockGeometry{Width: w, Height: h, Kind: s.Kind}
}

// RotateDirective is the rotation handed to the raster encoder: endless
// stock is rotated explicitly, die-cut stock lets the encoder decide.
func RotateDirective(kind core.StockKind, o core.Orientation) string {
	if kind != core.Endless {
		return "auto"
	}
	if o == core.Rotated {
		return "90"
	}
	return "0"
}
