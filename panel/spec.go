// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package panel describes the monochrome e-ink panels this module drives: their
// geometry, the packed framebuffer layout they expect, and how the active panel
// is configured.
package panel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrConfiguration is wrapped by every error caused by a missing or invalid
// panel configuration.
var ErrConfiguration = errors.New("panel configuration error")

// Spec is the pixel geometry of a panel.
//
// Packed buffers for a Spec hold one bit per pixel, MSB first. Every row starts
// on a byte boundary, so a row occupies Stride() bytes even when Width is not a
// multiple of 8.
type Spec struct {
	Width  int
	Height int
}

// NewSpec returns a Spec, rejecting non-positive dimensions.
func NewSpec(width, height int) (Spec, error) {
	if width <= 0 || height <= 0 {
		return Spec{}, fmt.Errorf("%w: invalid panel size %dx%d", ErrConfiguration, width, height)
	}
	return Spec{Width: width, Height: height}, nil
}

// Stride is the number of bytes used by one row of a packed buffer.
func (s Spec) Stride() int {
	return (s.Width + 7) / 8
}

// PackedSize is the length in bytes of a full packed buffer.
func (s Spec) PackedSize() int {
	return s.Stride() * s.Height
}

// Bounds returns the panel rectangle anchored at the origin.
func (s Spec) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// WhiteImage returns a packed buffer with every pixel white.
func (s Spec) WhiteImage() []byte {
	return bytes.Repeat([]byte{0xFF}, s.PackedSize())
}

// BlackImage returns a packed buffer with every pixel black.
func (s Spec) BlackImage() []byte {
	return make([]byte, s.PackedSize())
}

func (s Spec) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Firmware identifies a supported panel variant.
type Firmware int

const (
	// EPD128x250 is the 2.13 inch 128x250 panel.
	EPD128x250 Firmware = iota
	// EPD240x416 is the 3.7 inch 240x416 panel.
	EPD240x416
)

var firmwareSpecs = map[Firmware]Spec{
	EPD128x250: {Width: 128, Height: 250},
	EPD240x416: {Width: 240, Height: 416},
}

// Firmwares lists every supported variant.
func Firmwares() []Firmware {
	return []Firmware{EPD128x250, EPD240x416}
}

// Spec returns the geometry of the variant.
func (f Firmware) Spec() Spec {
	return firmwareSpecs[f]
}

func (f Firmware) String() string {
	switch f {
	case EPD128x250:
		return "EPD128x250"
	case EPD240x416:
		return "EPD240x416"
	}
	return fmt.Sprintf("Firmware(%d)", int(f))
}

// ParseFirmware parses a variant name such as "EPD128x250" or "128x250",
// ignoring case.
func ParseFirmware(s string) (Firmware, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "epd128x250", "128x250":
		return EPD128x250, nil
	case "epd240x416", "240x416":
		return EPD240x416, nil
	}
	return 0, fmt.Errorf("%w: unknown firmware type %q, supported types: EPD128x250, EPD240x416", ErrConfiguration, s)
}

// Mode selects how the panel refreshes after new pixel data is written.
type Mode int

const (
	// Full runs the controller's complete waveform. Slow, no ghosting.
	Full Mode = iota
	// Partial only drives changed pixels. Fast, accumulates ghosting.
	Partial
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Partial:
		return "partial"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "full" or "partial".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "full":
		return Full, nil
	case "partial":
		return Partial, nil
	}
	return 0, fmt.Errorf("unknown refresh mode %q", s)
}
