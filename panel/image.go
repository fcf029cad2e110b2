package panel

import (
	"fmt"
	"image"
	"image/color"
)

var (
	Black = Color{0}
	White = Color{1}

	Model = color.ModelFunc(model)

	defaultPalette = color.Palette{Black, White}
)

// Color is a panel pixel. The value matches the bit stored in a packed buffer.
type Color struct {
	// 0 black, 1 white
	C uint8
}

func (c Color) RGBA() (r, g, b, a uint32) {
	if c.C == 0 {
		return 0, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

func model(c color.Color) color.Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	return defaultPalette.Convert(c)
}

// Image is a draw.Image backed by a packed buffer, so drawing into it writes
// panel memory directly and the buffer can be sent as is.
type Image struct {
	// Pix is the packed buffer: 1 bit per pixel, MSB first, rows byte aligned,
	// 1 is white and 0 is black.
	Pix  []byte
	Spec Spec
}

// NewImage returns an all white Image for s.
func NewImage(s Spec) *Image {
	return &Image{Pix: s.WhiteImage(), Spec: s}
}

// ImageFromBuffer wraps an existing packed buffer without copying it.
func ImageFromBuffer(s Spec, buf []byte) (*Image, error) {
	if len(buf) != s.PackedSize() {
		return nil, fmt.Errorf("packed buffer is %d bytes, %v panel needs %d", len(buf), s, s.PackedSize())
	}
	return &Image{Pix: buf, Spec: s}, nil
}

func (i *Image) ColorModel() color.Model {
	return Model
}

func (i *Image) Bounds() image.Rectangle {
	return i.Spec.Bounds()
}

func (i *Image) offset(x, y int) (int, byte) {
	return y*i.Spec.Stride() + x/8, byte(0x80 >> (uint(x) % 8))
}

func (i *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(i.Bounds()) {
		return White
	}
	px, bit := i.offset(x, y)
	if i.Pix[px]&bit != 0 {
		return White
	}
	return Black
}

func (i *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}).In(i.Bounds()) {
		return
	}
	px, bit := i.offset(x, y)
	if model(c).(Color).C == 0 {
		i.Pix[px] &^= bit
	} else {
		i.Pix[px] |= bit
	}
}
