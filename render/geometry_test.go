package render

import (
	"image"
	"image/color"
	"testing"
)

var (
	cA = color.NRGBA{R: 10, A: 255}
	cB = color.NRGBA{R: 20, A: 255}
	cC = color.NRGBA{R: 30, A: 255}
	cD = color.NRGBA{R: 40, A: 255}
)

// quad returns the 2x2 image
//
//	A B
//	C D
func quad() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, cA)
	img.SetNRGBA(1, 0, cB)
	img.SetNRGBA(0, 1, cC)
	img.SetNRGBA(1, 1, cD)
	return img
}

func TestTransform(t *testing.T) {
	cases := []struct {
		desc  string
		flipH bool
		flipV bool
		r     Rotation
		want  [4]color.NRGBA // row major
	}{
		{desc: "identity", want: [4]color.NRGBA{cA, cB, cC, cD}},
		{desc: "flip h", flipH: true, want: [4]color.NRGBA{cB, cA, cD, cC}},
		{desc: "flip v", flipV: true, want: [4]color.NRGBA{cC, cD, cA, cB}},
		{desc: "rotate 90 clockwise", r: Rotate90, want: [4]color.NRGBA{cC, cA, cD, cB}},
		{desc: "rotate 180", r: Rotate180, want: [4]color.NRGBA{cD, cC, cB, cA}},
		{desc: "rotate 270", r: Rotate270, want: [4]color.NRGBA{cB, cD, cA, cC}},
		{desc: "flip h before rotate", flipH: true, r: Rotate90, want: [4]color.NRGBA{cD, cB, cC, cA}},
		{desc: "both flips", flipH: true, flipV: true, want: [4]color.NRGBA{cD, cC, cB, cA}},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got := Transform(quad(), c.flipH, c.flipV, c.r)
			for i, w := range c.want {
				x, y := i%2, i/2
				if g := got.NRGBAAt(x, y); g != w {
					t.Errorf("Transform().At(%d, %d) = %v, wanted %v", x, y, g, w)
				}
			}
		})
	}
}

func TestTransformSwapsDimensions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	cases := []struct {
		r    Rotation
		want image.Rectangle
	}{
		{r: Rotate0, want: image.Rect(0, 0, 5, 3)},
		{r: Rotate90, want: image.Rect(0, 0, 3, 5)},
		{r: Rotate180, want: image.Rect(0, 0, 5, 3)},
		{r: Rotate270, want: image.Rect(0, 0, 3, 5)},
	}
	for _, c := range cases {
		if got := Transform(img, false, false, c.r).Bounds(); got != c.want {
			t.Errorf("Transform(5x3, %v).Bounds() = %v, wanted %v", c.r, got, c.want)
		}
	}
}

func TestTransformDoesNotModifyInput(t *testing.T) {
	img := quad()
	Transform(img, true, true, Rotate90)
	if img.NRGBAAt(0, 0) != cA {
		t.Errorf("Transform modified its input")
	}
}
