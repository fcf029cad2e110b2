// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render turns arbitrary images into packed 1 bit framebuffers for
// e-ink panels.
//
// The pipeline runs in a fixed order:
//
//	Transform (flip, rotate) -> Scale -> Grayscale -> Dither -> Pack
//
// Every stage is a pure function; nothing in this package holds shared
// mutable state, so independent images can be processed concurrently.
package render

import (
	"fmt"
	"strings"
)

// Scaling is the policy used to fit an image to the panel.
type Scaling int

const (
	// Letterbox fits the whole image, padding with white.
	Letterbox Scaling = iota
	// CropCenter fills the panel and crops the overflow.
	CropCenter
	// Stretch resizes to the panel ignoring aspect ratio.
	Stretch
)

func (s Scaling) String() string {
	switch s {
	case Letterbox:
		return "letterbox"
	case CropCenter:
		return "crop"
	case Stretch:
		return "stretch"
	}
	return fmt.Sprintf("Scaling(%d)", int(s))
}

// ParseScaling parses "letterbox", "crop" or "stretch".
func ParseScaling(s string) (Scaling, error) {
	switch strings.ToLower(s) {
	case "letterbox", "fit":
		return Letterbox, nil
	case "crop", "cropcenter", "fill":
		return CropCenter, nil
	case "stretch":
		return Stretch, nil
	}
	return 0, fmt.Errorf("unknown scaling method %q", s)
}

// Dithering is the grayscale to 1 bit reduction algorithm.
type Dithering int

const (
	FloydSteinberg Dithering = iota
	None
	Sierra
	Sierra2Row
	SierraLite
	OrderedBayer
)

var ditheringNames = map[Dithering]string{
	FloydSteinberg: "floyd-steinberg",
	None:           "none",
	Sierra:         "sierra",
	Sierra2Row:     "sierra2",
	SierraLite:     "sierra-lite",
	OrderedBayer:   "bayer",
}

func (d Dithering) String() string {
	if n, ok := ditheringNames[d]; ok {
		return n
	}
	return fmt.Sprintf("Dithering(%d)", int(d))
}

// ParseDithering parses a name returned by Dithering.String, plus a few
// aliases ("fs", "threshold", "simple", "ordered").
func ParseDithering(s string) (Dithering, error) {
	s = strings.ToLower(s)
	for d, n := range ditheringNames {
		if s == n {
			return d, nil
		}
	}
	switch s {
	case "fs", "floydsteinberg":
		return FloydSteinberg, nil
	case "threshold":
		return None, nil
	case "simple", "ordered":
		return OrderedBayer, nil
	case "sierra-2row", "sierra2row":
		return Sierra2Row, nil
	case "sierralite":
		return SierraLite, nil
	}
	return 0, fmt.Errorf("unknown dithering method %q", s)
}

// Rotation is a clockwise rotation in multiples of 90 degrees.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Degrees returns the clockwise angle.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Degrees())
}

// ParseRotation converts an angle in degrees. Negative angles count
// counter-clockwise.
func ParseRotation(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90 degrees", degrees)
	}
	return Rotation(((degrees/90)%4 + 4) % 4), nil
}

// Options controls the pipeline. The zero value is DefaultOptions.
type Options struct {
	Scaling   Scaling
	Dithering Dithering
	Rotation  Rotation
	FlipH     bool
	FlipV     bool
	// CropX and CropY anchor the CropCenter window. nil centers it.
	CropX *int
	CropY *int
	// Profile overrides the tone profile of the dithering method.
	Profile *Profile
}

// DefaultOptions returns Letterbox, FloydSteinberg, no rotation, no flips and
// a centered crop.
func DefaultOptions() Options {
	return Options{}
}
