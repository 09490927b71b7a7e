package docscan

import "errors"

// ErrNoText is returned when OCR produces no usable text at all.
var ErrNoText = errors.New("no text detected")
