package render

import (
	"fmt"
	"image"
)

// PackedSize returns the length of a packed buffer for a w x h image.
func PackedSize(w, h int) int {
	return (w + 7) / 8 * h
}

// Pack converts a binary grayscale image into the panel framebuffer format:
// rows start on a byte boundary, the leftmost pixel is the most significant
// bit, 1 is white. Samples above 128 are white. Padding bits are 0.
func Pack(g *image.Gray) []byte {
	b := g.Bounds()
	buf, _ := PackInto(make([]byte, PackedSize(b.Dx(), b.Dy())), g)
	return buf
}

// PackInto packs g into dst and returns the packed prefix of dst. It fails if
// dst is too short.
func PackInto(dst []byte, g *image.Gray) ([]byte, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	n := PackedSize(w, h)
	if len(dst) < n {
		return nil, fmt.Errorf("PackInto: buffer holds %d bytes, %dx%d needs %d", len(dst), w, h, n)
	}
	dst = dst[:n]
	stride := (w + 7) / 8
	for y := 0; y < h; y++ {
		row := dst[y*stride : (y+1)*stride]
		for i := range row {
			row[i] = 0
		}
		src := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if src[x] > 128 {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return dst, nil
}
