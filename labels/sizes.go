package labels

import (
	"fmt"

	"label-server/core"
)

// Size describes one label stock supported by the Brother QL series.
type Size struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	TapeSize  [2]int         `json:"tape_size"` // mm, 0 for unbounded length
	Printable [2]int         `json:"dots_printable"`
	Kind      core.StockKind `json:"-"`
	KindName  string         `json:"kind"`
}

var table = []Size{
	endless("12", "12mm endless", 12, 106),
	endless("29", "29mm endless", 29, 306),
	endless("38", "38mm endless", 38, 413),
	endless("50", "50mm endless", 50, 554),
	endless("54", "54mm endless", 54, 590),
	endless("62", "62mm endless", 62, 696),
	endless("102", "102mm endless", 102, 1164),
	dieCut("17x54", 17, 54, 165, 566),
	dieCut("17x87", 17, 87, 165, 956),
	dieCut("23x23", 23, 23, 202, 202),
	dieCut("29x42", 29, 42, 306, 425),
	dieCut("29x90", 29, 90, 306, 991),
	dieCut("39x90", 38, 90, 413, 991),
	dieCut("39x48", 39, 48, 425, 495),
	dieCut("52x29", 52, 29, 578, 271),
	dieCut("62x29", 62, 29, 696, 271),
	dieCut("62x100", 62, 100, 696, 1109),
	dieCut("102x51", 102, 51, 1164, 526),
	dieCut("102x152", 102, 153, 1164, 1660),
	round("d12", 12, 94),
	round("d24", 24, 236),
	round("d58", 58, 618),
}

var byID = func() map[string]Size {
	m := make(map[string]Size, len(table))
	for _, s := range table {
		m[s.ID] = s
	}
	return m
}()

func endless(id, name string, mm, dots int) Size {
	return Size{ID: id, Name: name, TapeSize: [2]int{mm, 0}, Printable: [2]int{dots, 0}, Kind: core.Endless, KindName: core.Endless.String()}
}

func dieCut(id string, w, h, dw, dh int) Size {
	return Size{
		ID:        id,
		Name:      fmt.Sprintf("%dmm x %dmm die-cut", w, h),
		TapeSize:  [2]int{w, h},
		Printable: [2]int{dw, dh},
		Kind:      core.DieCut,
		KindName:  core.DieCut.String(),
	}
}

func round(id string, mm, dots int) Size {
	return Size{
		ID:        id,
		Name:      fmt.Sprintf("%dmm round die-cut", mm),
		TapeSize:  [2]int{mm, mm},
		Printable: [2]int{dots, dots},
		Kind:      core.RoundDieCut,
		KindName:  core.RoundDieCut.String(),
	}
}

// All returns the stock table in its canonical order.
func All() []Size {
	out := make([]Size, len(table))
	copy(out, table)
	return out
}

// Lookup finds a stock by identifier such as "62" or "d24".
func Lookup(id string) (Size, error) {
	s, ok := byID[id]
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", core.ErrInvalidLabelSize, id)
	}
	return s, nil
}
