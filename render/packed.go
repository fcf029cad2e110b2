package render

import "fmt"

// Invert flips every pixel of a packed w x h buffer between black and white.
// Row padding bits stay 0.
func Invert(buf []byte, w, h int) ([]byte, error) {
	if err := checkPacked("Invert", buf, w, h); err != nil {
		return nil, err
	}
	stride := (w + 7) / 8
	out := make([]byte, PackedSize(w, h))
	var pad byte = 0xFF
	if r := w % 8; r != 0 {
		pad = 0xFF << (8 - r)
	}
	for y := 0; y < h; y++ {
		row := out[y*stride : (y+1)*stride]
		for i, b := range buf[y*stride : (y+1)*stride] {
			row[i] = ^b
		}
		row[stride-1] &= pad
	}
	return out, nil
}

func checkPacked(name string, buf []byte, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%s: invalid size %dx%d", name, w, h)
	}
	if n := PackedSize(w, h); len(buf) < n {
		return fmt.Errorf("%s: buffer holds %d bytes, %dx%d needs %d", name, len(buf), w, h, n)
	}
	return nil
}

func packedBit(buf []byte, stride, x, y int) bool {
	return buf[y*stride+x/8]&(0x80>>(x%8)) != 0
}

func setPackedBit(buf []byte, stride, x, y int) {
	buf[y*stride+x/8] |= 0x80 >> (x % 8)
}

// FlipPackedHorizontal mirrors a packed w x h buffer left to right.
func FlipPackedHorizontal(buf []byte, w, h int) ([]byte, error) {
	if err := checkPacked("FlipPackedHorizontal", buf, w, h); err != nil {
		return nil, err
	}
	stride := (w + 7) / 8
	out := make([]byte, PackedSize(w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if packedBit(buf, stride, x, y) {
				setPackedBit(out, stride, w-1-x, y)
			}
		}
	}
	return out, nil
}

// RotatePackedCCW rotates a packed w x h buffer 90 degrees counter-clockwise.
// The result is an h x w buffer.
func RotatePackedCCW(buf []byte, w, h int) ([]byte, error) {
	if err := checkPacked("RotatePackedCCW", buf, w, h); err != nil {
		return nil, err
	}
	stride := (w + 7) / 8
	outStride := (h + 7) / 8
	out := make([]byte, PackedSize(h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if packedBit(buf, stride, x, y) {
				setPackedBit(out, outStride, y, w-1-x)
			}
		}
	}
	return out, nil
}
