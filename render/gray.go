package render

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale converts img to 8 bit luma using the Rec. 709 weights in integer
// arithmetic: (2126*R + 7152*G + 722*B) / 10000. Alpha is ignored, so a
// transparent pixel keeps the luma of its color channels.
func Grayscale(img image.Image) *image.Gray {
	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = imaging.Clone(img)
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := range dst {
			p := row[x*4 : x*4+3 : x*4+3]
			dst[x] = luma(p[0], p[1], p[2])
		}
	}
	return out
}

func luma(r, g, b uint8) uint8 {
	return uint8((2126*uint32(r) + 7152*uint32(g) + 722*uint32(b)) / 10000)
}
