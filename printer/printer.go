// Package printer hands rendered labels to an encoder and delivers the
// encoded data to a backend, one job at a time.
package printer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrTransport wraps failures while talking to the device.
var ErrTransport = errors.New("printer transport failed")

type Config struct {
	Encoder Encoder
	Backend Backend
	Model   string
	// Rate is the sustained number of jobs per second; 0 means unlimited.
	Rate   float64
	DryRun bool
}

type Printer struct {
	encoder Encoder
	backend Backend
	model   string
	limiter *rate.Limiter
	dryRun  bool
}

// Result describes one delivered (or dry-run) job.
type Result struct {
	Bytes int
	Sent  bool
}

func New(cfg Config) *Printer {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	enc := cfg.Encoder
	if enc == nil {
		enc = PNGEncoder{}
	}
	return &Printer{
		encoder: enc,
		backend: cfg.Backend,
		model:   cfg.Model,
		limiter: rate.NewLimiter(limit, 1),
		dryRun:  cfg.DryRun || cfg.Backend == nil,
	}
}

func (p *Printer) Model() string { return p.model }

// Print encodes img and writes it to the backend unless the printer is in
// dry-run mode.
func (p *Printer) Print(ctx context.Context, img *image.Gray, opts Options) (Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	if opts.Model == "" {
		opts.Model = p.model
	}
	data, err := p.encoder.Encode(img, opts)
	if err != nil {
		return Result{}, fmt.Errorf("encode label: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"label_size": opts.LabelSize,
		"rotate":     opts.Rotate,
		"bytes":      len(data),
	})
	if p.dryRun {
		log.Info("Dry run, label not sent")
		return Result{Bytes: len(data)}, nil
	}

	log = log.WithField("backend", p.backend.String())
	if err := p.backend.Write(ctx, data); err != nil {
		log.WithError(err).Warn("Failed to send label")
		return Result{Bytes: len(data)}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	log.Info("Label sent")
	return Result{Bytes: len(data), Sent: true}, nil
}
