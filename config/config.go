// Package config reads the command line and environment into a Config.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"label-server/core"
	"label-server/labels"
	"label-server/printer"
)

type Config struct {
	Listen             string
	LogLevel           string
	FontFolder         string
	DefaultLabelSize   string
	DefaultOrientation core.Orientation
	Model              string
	Printer            string
	DryRun             bool
	DebugImage         string
	IssueToken         string
	JWTSecret          string
	// PrintRate is the sustained jobs per second sent to the printer, 0 for no limit.
	PrintRate float64
}

// Parse reads args (without the program name). getenv supplies the
// environment fallbacks; pass os.Getenv outside of tests.
func Parse(args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("label-server", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	cfg := &Config{}
	var orientation string
	fs.StringVar(&cfg.Listen, "listen", ":8013", "The address to listen on.")
	fs.StringVar(&cfg.LogLevel, "loglevel", "info", "The log level (debug, info, warn, error).")
	fs.StringVar(&cfg.FontFolder, "font-folder", getenv("FONT_FOLDER"), "Additional folder with .ttf/.otf fonts.")
	fs.StringVar(&cfg.DefaultLabelSize, "default-label-size", "62", "Label size selected by default.")
	fs.StringVar(&orientation, "default-orientation", "standard", "Label orientation selected by default (standard, rotated).")
	fs.StringVar(&cfg.Model, "model", "QL-500", "The printer model.")
	fs.StringVar(&cfg.Printer, "printer", getenv("PRINTER"), "The printer device, e.g. tcp://192.168.0.23:9100 or file:///dev/usb/lp1.")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Render and record labels without sending them to the printer.")
	fs.StringVar(&cfg.DebugImage, "debug-image", "", "Write every rendered label to this PNG file.")
	fs.StringVar(&cfg.IssueToken, "issue-token", "", "Print a bearer token for this subject and exit.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 {
		cfg.Printer = fs.Arg(0)
	}

	o, ok := core.ParseOrientation(orientation)
	if !ok {
		return nil, fmt.Errorf("invalid default orientation %q", orientation)
	}
	cfg.DefaultOrientation = o

	if _, err := labels.Lookup(cfg.DefaultLabelSize); err != nil {
		return nil, fmt.Errorf("invalid default label size: %w", err)
	}
	if !printer.ValidModel(cfg.Model) {
		return nil, fmt.Errorf("unknown printer model %q", cfg.Model)
	}

	cfg.JWTSecret = getenv("JWT_SECRET")
	if s := getenv("PRINT_RATE"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || r < 0 {
			return nil, fmt.Errorf("invalid PRINT_RATE %q", s)
		}
		cfg.PrintRate = r
	}

	if cfg.Printer == "" && !cfg.DryRun && cfg.IssueToken == "" {
		return nil, errors.New("no printer given, pass -printer or use -dry-run")
	}
	return cfg, nil
}
