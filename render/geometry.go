package render

import (
	"image"

	"github.com/disintegration/imaging"
)

// Transform mirrors and rotates img. The order is fixed: horizontal flip,
// vertical flip, then clockwise rotation. Rotate90 and Rotate270 swap width and
// height.
func Transform(img image.Image, flipH, flipV bool, r Rotation) *image.NRGBA {
	out := imaging.Clone(img)
	if flipH {
		out = imaging.FlipH(out)
	}
	if flipV {
		out = imaging.FlipV(out)
	}
	// imaging rotates counter-clockwise.
	switch r {
	case Rotate90:
		out = imaging.Rotate270(out)
	case Rotate180:
		out = imaging.Rotate180(out)
	case Rotate270:
		out = imaging.Rotate90(out)
	}
	return out
}
