package core

import (
	"context"
	"time"

	"golang.org/x/image/font"
)

type (
	// StockKind is the physical kind of label medium loaded in the printer.
	StockKind int

	// Orientation selects whether text runs along the feed direction or across it.
	Orientation int

	// Align is the horizontal alignment of a text block and of its lines.
	Align int

	// StockGeometry is the printable area of a label stock in printer dots.
	// For endless stock one of Width/Height is 0 until sized from content.
	StockGeometry struct {
		Width  int
		Height int
		Kind   StockKind
	}

	// Margins are expressed in pixels and are never negative.
	Margins struct {
		Top    int
		Bottom int
		Left   int
		Right  int
	}

	// LayoutRequest carries everything the layout engine needs for one label.
	LayoutRequest struct {
		Text        string
		Face        font.Face
		FontSize    int
		Stock       StockGeometry
		Orientation Orientation
		Align       Align
		Margins     Margins
		Threshold   int
	}

	// PrintJob is one entry of the print history.
	PrintJob struct {
		ID          string    `json:"id"`
		LabelSize   string    `json:"label_size"`
		Text        string    `json:"text"`
		FontFamily  string    `json:"font_family"`
		FontStyle   string    `json:"font_style"`
		FontSize    int       `json:"font_size"`
		Orientation string    `json:"orientation"`
		Width       int       `json:"width"`
		Height      int       `json:"height"`
		Status      JobStatus `json:"status"`
		Message     string    `json:"message,omitempty"`
		Preview     []byte    `json:"preview,omitempty"` // PNG, omitted from list views
		CreatedAt   time.Time `json:"created_at"`
	}

	JobStatus string

	// JobStore persists the print history. List returns newest jobs first
	// and leaves Preview empty.
	JobStore interface {
		Create(ctx context.Context, job *PrintJob) (string, error)
		Get(ctx context.Context, id string) (*PrintJob, error)
		List(ctx context.Context, limit int) ([]*PrintJob, error)
		Delete(ctx context.Context, id string) error
	}
)

const (
	Endless StockKind = iota
	DieCut
	RoundDieCut
)

const (
	Normal Orientation = iota
	Rotated
)

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

const (
	JobPrinted JobStatus = "printed"
	JobFailed  JobStatus = "failed"
	JobDryRun  JobStatus = "dry-run"
)

func (k StockKind) String() string {
	switch k {
	case Endless:
		return "endless"
	case DieCut:
		return "die-cut"
	case RoundDieCut:
		return "round-die-cut"
	}
	return "unknown"
}

func (o Orientation) String() string {
	if o == Rotated {
		return "rotated"
	}
	return "standard"
}

// ParseOrientation accepts the wire names "standard" and "rotated".
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "standard":
		return Normal, true
	case "rotated":
		return Rotated, true
	}
	return Normal, false
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "center"
}

// ParseAlign accepts "left", "center" and "right".
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "left":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	}
	return AlignCenter, false
}
