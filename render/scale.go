package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Scale resizes img to exactly width x height using opts.Scaling.
//
// Letterbox and CropCenter compute one scale factor for both axes (the min and
// max of the per-axis ratios respectively) and truncate the resulting size.
// CropCenter then cuts a width x height window, anchored at opts.CropX/CropY
// when set and centered otherwise, clamped so it never leaves the resized
// image. Letterbox centers the resized image on a white canvas; odd remainders
// shift it one pixel toward the top left.
func Scale(img image.Image, width, height int, opts Options) *image.NRGBA {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW == 0 || origH == 0 {
		return imaging.New(width, height, color.White)
	}
	sw := float32(width) / float32(origW)
	sh := float32(height) / float32(origH)

	switch opts.Scaling {
	case Stretch:
		return imaging.Resize(img, width, height, imaging.Lanczos)

	case CropCenter:
		s := sw
		if sh > s {
			s = sh
		}
		// Float truncation can land a pixel short of the target.
		newW := atLeast(int(float32(origW)*s), width)
		newH := atLeast(int(float32(origH)*s), height)
		scaled := imaging.Resize(img, newW, newH, imaging.Lanczos)

		left := cropOrigin(opts.CropX, newW, width)
		top := cropOrigin(opts.CropY, newH, height)
		return imaging.Crop(scaled, image.Rect(left, top, left+width, top+height))

	default:
		s := sw
		if sh < s {
			s = sh
		}
		newW := atLeast(int(float32(origW)*s), 1)
		newH := atLeast(int(float32(origH)*s), 1)
		if newW > width {
			newW = width
		}
		if newH > height {
			newH = height
		}
		scaled := imaging.Resize(img, newW, newH, imaging.Lanczos)
		canvas := imaging.New(width, height, color.White)
		return imaging.Overlay(canvas, scaled, image.Pt((width-newW)/2, (height-newH)/2), 1.0)
	}
}

// cropOrigin returns the explicit anchor or the centered one, clamped into
// [0, scaled-target].
func cropOrigin(anchor *int, scaled, target int) int {
	limit := scaled - target
	o := limit / 2
	if anchor != nil {
		o = *anchor
	}
	if o > limit {
		o = limit
	}
	if o < 0 {
		o = 0
	}
	return o
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
