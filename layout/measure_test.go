package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasure_SingleLine(t *testing.T) {
	m := Measure("Hello", monoFace{})
	assert.Equal(t, 1, m.LineCount())
	assert.Equal(t, 50, m.Width)
	assert.Equal(t, 20, m.Height)
	assert.Equal(t, 16, m.Ascent)
}

func TestMeasure_EmptyLineKeepsHeight(t *testing.T) {
	m := Measure("A\n\nB", monoFace{})
	assert.Equal(t, 3, m.LineCount())
	assert.Equal(t, []string{"A", " ", "B"}, m.Lines)
	assert.Equal(t, 3*20+2*LineSpacing, m.Height)
	assert.Equal(t, 10, m.LineWidths[1])
}

func TestMeasure_EmptyText(t *testing.T) {
	m := Measure("", monoFace{})
	assert.Equal(t, 1, m.LineCount())
	assert.Equal(t, 20, m.Height)
	assert.Equal(t, 10, m.Width)
}

func TestMeasure_WidestLineWins(t *testing.T) {
	m := Measure("ab\r\nabcd\nabc", monoFace{})
	assert.Equal(t, 3, m.LineCount())
	assert.Equal(t, 40, m.Width)
	assert.Equal(t, []int{20, 40, 30}, m.LineWidths)
}

func TestMeasure_RealFontEmptyLine(t *testing.T) {
	face := goFace(t, 40)
	single := Measure("A", face)
	m := Measure("A\n\nB", face)
	assert.Greater(t, single.LineHeight, 0)
	assert.Equal(t, 3*single.LineHeight+2*LineSpacing, m.Height)
	assert.Greater(t, m.LineWidths[1], 0)
}
