package fonts

import (
	"fmt"
	"sort"

	"label-server/core"
)

// DefaultStyle is used when a request names a family but no style.
const DefaultStyle = "Regular"

// Ref names one face of the table.
type Ref struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

// DefaultCandidates are tried in order when choosing the default font.
// The built-in Go family guarantees a match.
var DefaultCandidates = []Ref{
	{Family: "Minion Pro", Style: "Semibold"},
	{Family: "Linux Libertine", Style: "Regular"},
	{Family: "DejaVu Serif", Style: "Book"},
	{Family: BuiltinFamily, Style: "Regular"},
}

// Table maps family -> style -> font file path. It is filled once at
// startup and only read afterwards.
type Table struct {
	families map[string]map[string]string
}

func NewTable() *Table {
	return &Table{families: make(map[string]map[string]string)}
}

// Add registers a face. A later Add for the same family and style wins.
func (t *Table) Add(family, style, path string) {
	styles, ok := t.families[family]
	if !ok {
		styles = make(map[string]string)
		t.families[family] = styles
	}
	styles[style] = path
}

// Merge copies every face of other into t.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for family, styles := range other.families {
		for style, path := range styles {
			t.Add(family, style, path)
		}
	}
}

// Len is the number of faces in the table.
func (t *Table) Len() int {
	n := 0
	for _, styles := range t.families {
		n += len(styles)
	}
	return n
}

func (t *Table) Families() []string {
	out := make([]string, 0, len(t.families))
	for family := range t.families {
		out = append(out, family)
	}
	sort.Strings(out)
	return out
}

func (t *Table) Styles(family string) []string {
	styles := t.families[family]
	out := make([]string, 0, len(styles))
	for style := range styles {
		out = append(out, style)
	}
	sort.Strings(out)
	return out
}

// Catalog returns family -> sorted styles, ready for JSON encoding.
func (t *Table) Catalog() map[string][]string {
	out := make(map[string][]string, len(t.families))
	for family := range t.families {
		out[family] = t.Styles(family)
	}
	return out
}

// Lookup returns the path of a face. An empty style means DefaultStyle.
func (t *Table) Lookup(family, style string) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	if path, ok := t.families[family][style]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s %s", core.ErrFontUnavailable, family, style)
}

// SelectDefault returns the first candidate present in the table.
func (t *Table) SelectDefault(candidates []Ref) (Ref, error) {
	for _, c := range candidates {
		if _, err := t.Lookup(c.Family, c.Style); err == nil {
			return c, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: none of the default fonts is installed", core.ErrFontUnavailable)
}
