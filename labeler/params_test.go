package labeler

import (
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"label-server/core"
	"label-server/layout"
)

var defaults = Defaults{LabelSize: "62", Orientation: core.Normal}

func TestParseParams_Defaults(t *testing.T) {
	p, err := ParseParams(url.Values{}, defaults)
	require.NoError(t, err)

	assert.False(t, p.HasText)
	assert.Equal(t, "62", p.LabelSize)
	assert.Equal(t, 100, p.FontSize)
	assert.Equal(t, 70, p.Threshold)
	assert.Equal(t, core.AlignCenter, p.Align)
	assert.Equal(t, core.Margins{Top: 24, Bottom: 45, Left: 35, Right: 35}, p.Margins())
}

func TestParseParams_Values(t *testing.T) {
	v := url.Values{
		"text":          {"Café"},
		"font_family":   {"Go"},
		"font_style":    {"Bold"},
		"font_size":     {"50"},
		"label_size":    {"d24"},
		"orientation":   {"rotated"},
		"align":         {"right"},
		"threshold":     {"128"},
		"margin_top":    {"10"},
		"margin_bottom": {"15.5"},
		"margin_left":   {"0"},
		"margin_right":  {"33"},
	}
	p, err := ParseParams(v, defaults)
	require.NoError(t, err)

	assert.True(t, p.HasText)
	assert.Equal(t, "Café", p.Text)
	assert.Equal(t, "d24", p.LabelSize)
	assert.Equal(t, core.Rotated, p.Orientation)
	assert.Equal(t, core.AlignRight, p.Align)
	assert.Equal(t, 128, p.Threshold)
	// int() truncation of 50*15.5/100 = 7.75 and 50*33/100 = 16.5
	assert.Equal(t, core.Margins{Top: 5, Bottom: 7, Left: 0, Right: 16}, p.Margins())
}

func TestParseParams_Invalid(t *testing.T) {
	for _, v := range []url.Values{
		{"font_size": {"big"}},
		{"font_size": {"0"}},
		{"threshold": {"256"}},
		{"threshold": {"-1"}},
		{"font_size": {"100000"}},
		{"margin_top": {"-5"}},
		{"margin_top": {"1000000000"}},
		{"margin_bottom": {"1e14"}},
		{"margin_left": {"NaN"}},
		{"orientation": {"sideways"}},
		{"align": {"justify"}},
	} {
		_, err := ParseParams(v, defaults)
		assert.True(t, errors.Is(err, core.ErrInvalidParams), "%v", v)
	}
}

func TestParams_MarginsClampHugeValues(t *testing.T) {
	p := Params{FontSize: 100, MarginTop: 1e14, MarginBottom: math.Inf(1), MarginLeft: 35}
	m := p.Margins()
	assert.Equal(t, layout.MaxCanvasDots+1, m.Top)
	assert.Equal(t, layout.MaxCanvasDots+1, m.Bottom)
	assert.Equal(t, 35, m.Left)
}
