// Package labeler turns label parameters into rendered labels, prints them
// and records each print in the job history.
package labeler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"label-server/core"
	"label-server/fonts"
	"label-server/labels"
	"label-server/layout"
	"label-server/printer"
)

type Options struct {
	Fonts       *fonts.Table
	DefaultFont fonts.Ref
	Faces       *fonts.Cache
	Printer     *printer.Printer
	Store       core.JobStore
	Defaults    Defaults
	// DebugImage, when set, receives a PNG of every rendered label.
	DebugImage string
}

// Service is built once at startup and is safe for concurrent use; it holds
// no state that changes after construction.
type Service struct {
	fonts       *fonts.Table
	defaultFont fonts.Ref
	faces       *fonts.Cache
	printer     *printer.Printer
	store       core.JobStore
	defaults    Defaults
	debugImage  string
	encode      func(image.Image) ([]byte, error)
}

func New(opts Options) *Service {
	faces := opts.Faces
	if faces == nil {
		faces = fonts.NewCache(0)
	}
	return &Service{
		fonts:       opts.Fonts,
		defaultFont: opts.DefaultFont,
		faces:       faces,
		printer:     opts.Printer,
		store:       opts.Store,
		defaults:    opts.Defaults,
		debugImage:  opts.DebugImage,
		encode:      EncodePNG,
	}
}

func (s *Service) Defaults() Defaults { return s.defaults }

func (s *Service) DefaultFont() fonts.Ref { return s.defaultFont }

func (s *Service) Fonts() map[string][]string { return s.fonts.Catalog() }

type rendered struct {
	img   *image.Gray
	font  fonts.Ref
	stock labels.Size
}

// Preview renders a label without printing or recording it.
func (s *Service) Preview(ctx context.Context, p Params) (*image.Gray, error) {
	r, err := s.render(p)
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

// Print renders the label, sends it to the printer and records the job.
// The job is returned even when the transport fails.
func (s *Service) Print(ctx context.Context, p Params) (*core.PrintJob, error) {
	if !p.HasText {
		return nil, core.ErrMissingText
	}
	r, err := s.render(p)
	if err != nil {
		return nil, err
	}

	job := &core.PrintJob{
		LabelSize:   p.LabelSize,
		Text:        p.Text,
		FontFamily:  r.font.Family,
		FontStyle:   r.font.Style,
		FontSize:    p.FontSize,
		Orientation: p.Orientation.String(),
		Width:       r.img.Bounds().Dx(),
		Height:      r.img.Bounds().Dy(),
		CreatedAt:   time.Now().UTC(),
	}

	var printErr error
	if s.printer == nil {
		job.Status = core.JobDryRun
	} else {
		res, err := s.printer.Print(ctx, r.img, printer.Options{
			LabelSize: p.LabelSize,
			Threshold: p.Threshold,
			Cut:       true,
			Rotate:    labels.RotateDirective(r.stock.Kind, p.Orientation),
		})
		switch {
		case err != nil:
			job.Status = core.JobFailed
			job.Message = err.Error()
			printErr = err
		case res.Sent:
			job.Status = core.JobPrinted
		default:
			job.Status = core.JobDryRun
		}
	}

	if s.store != nil {
		if job.Preview, err = s.encode(r.img); err != nil {
			logrus.WithError(err).Warn("Recording print job without preview")
		}
		id, err := s.store.Create(ctx, job)
		if err != nil {
			logrus.WithError(err).Error("Failed to record print job")
		} else {
			job.ID = id
		}
	}
	return job, printErr
}

func (s *Service) render(p Params) (*rendered, error) {
	ref := fonts.Ref{Family: p.FontFamily, Style: p.FontStyle}
	if ref.Family == "" {
		ref = s.defaultFont
	}
	if ref.Style == "" {
		ref.Style = fonts.DefaultStyle
	}
	path, err := s.fonts.Lookup(ref.Family, ref.Style)
	if err != nil {
		return nil, err
	}

	stock, err := labels.Lookup(p.LabelSize)
	if err != nil {
		return nil, err
	}

	face, err := s.faces.Face(path, p.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	img, err := layout.Render(core.LayoutRequest{
		Text:        p.Text,
		Face:        face,
		FontSize:    p.FontSize,
		Stock:       stock.Geometry(p.Orientation),
		Orientation: p.Orientation,
		Align:       p.Align,
		Margins:     p.Margins(),
		Threshold:   p.Threshold,
	})
	if err != nil {
		return nil, err
	}

	if s.debugImage != "" {
		s.writeDebugImage(img)
	}
	return &rendered{img: img, font: ref, stock: stock}, nil
}

func (s *Service) writeDebugImage(img *image.Gray) {
	data, err := EncodePNG(img)
	if err == nil {
		err = os.WriteFile(s.debugImage, data, 0o644)
	}
	if err != nil {
		logrus.WithError(err).WithField("path", s.debugImage).Warn("Failed to write debug image")
	}
}

// EncodePNG encodes a rendered label for previews and the job history.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// IsClientError reports whether err was caused by the request parameters.
func IsClientError(err error) bool {
	return errors.Is(err, core.ErrInvalidParams) ||
		errors.Is(err, core.ErrInvalidLabelSize) ||
		errors.Is(err, core.ErrFontUnavailable) ||
		errors.Is(err, core.ErrInvalidGeometry) ||
		errors.Is(err, core.ErrMissingText)
}
