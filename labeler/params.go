package labeler

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"label-server/core"
	"label-server/layout"
)

// MaxMarginPercent bounds each margin, in percent of the font size.
const MaxMarginPercent = 1000

// Params are the raw label parameters of a preview or print request.
// Margins are percentages of the font size.
type Params struct {
	Text        string
	HasText     bool
	FontFamily  string
	FontStyle   string
	FontSize    int
	LabelSize   string
	Orientation core.Orientation
	Align       core.Align
	Threshold   int

	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// Defaults fills the parameters a request leaves out.
type Defaults struct {
	LabelSize   string
	Orientation core.Orientation
}

// ParseParams reads label parameters from decoded query or form values.
func ParseParams(v url.Values, d Defaults) (Params, error) {
	p := Params{
		FontFamily:   v.Get("font_family"),
		FontStyle:    v.Get("font_style"),
		LabelSize:    d.LabelSize,
		Orientation:  d.Orientation,
		Align:        core.AlignCenter,
		FontSize:     100,
		Threshold:    70,
		MarginTop:    24,
		MarginBottom: 45,
		MarginLeft:   35,
		MarginRight:  35,
	}
	if _, ok := v["text"]; ok {
		p.Text = norm.NFC.String(v.Get("text"))
		p.HasText = true
	}
	if s := v.Get("label_size"); s != "" {
		p.LabelSize = s
	}
	if s := v.Get("orientation"); s != "" {
		o, ok := core.ParseOrientation(s)
		if !ok {
			return Params{}, fmt.Errorf("%w: orientation %q", core.ErrInvalidParams, s)
		}
		p.Orientation = o
	}
	if s := v.Get("align"); s != "" {
		a, ok := core.ParseAlign(s)
		if !ok {
			return Params{}, fmt.Errorf("%w: align %q", core.ErrInvalidParams, s)
		}
		p.Align = a
	}

	var err error
	if p.FontSize, err = intParam(v, "font_size", p.FontSize); err != nil {
		return Params{}, err
	}
	if p.FontSize <= 0 || p.FontSize > layout.MaxFontSize {
		return Params{}, fmt.Errorf("%w: font_size must be within 1-%d", core.ErrInvalidParams, layout.MaxFontSize)
	}
	if p.Threshold, err = intParam(v, "threshold", p.Threshold); err != nil {
		return Params{}, err
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		return Params{}, fmt.Errorf("%w: threshold must be within 0-255", core.ErrInvalidParams)
	}
	for _, m := range []struct {
		key string
		dst *float64
	}{
		{"margin_top", &p.MarginTop},
		{"margin_bottom", &p.MarginBottom},
		{"margin_left", &p.MarginLeft},
		{"margin_right", &p.MarginRight},
	} {
		if *m.dst, err = floatParam(v, m.key, *m.dst); err != nil {
			return Params{}, err
		}
		if *m.dst < 0 || *m.dst > MaxMarginPercent {
			return Params{}, fmt.Errorf("%w: %s must be within 0-%d", core.ErrInvalidParams, m.key, MaxMarginPercent)
		}
	}
	return p, nil
}

// Margins converts the percentage margins to pixels of the font size.
func (p Params) Margins() core.Margins {
	// Clamped before the int conversion; oversized margins fail canvas sizing.
	px := func(pct float64) int {
		v := float64(p.FontSize) * pct / 100
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		return int(math.Min(v, layout.MaxCanvasDots+1))
	}
	return core.Margins{
		Top:    px(p.MarginTop),
		Bottom: px(p.MarginBottom),
		Left:   px(p.MarginLeft),
		Right:  px(p.MarginRight),
	}
}

func intParam(v url.Values, key string, def int) (int, error) {
	s := v.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", core.ErrInvalidParams, key, s)
	}
	return n, nil
}

func floatParam(v url.Values, key string, def float64) (float64, error) {
	s := v.Get(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s=%q", core.ErrInvalidParams, key, s)
	}
	return f, nil
}
