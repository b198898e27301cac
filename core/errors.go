package core

import "errors"

var (
	ErrInvalidLabelSize = errors.New("unknown label size")
	ErrFontUnavailable  = errors.New("couldn't find the font & style")
	ErrInvalidGeometry  = errors.New("label dimensions must be positive")
	ErrInvalidParams    = errors.New("invalid label parameters")
	ErrMissingText      = errors.New("please provide the text for the label")
	ErrJobNotFound      = errors.New("print job not found")
)
