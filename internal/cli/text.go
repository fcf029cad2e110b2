package cli

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/toothrot/goeink/panel"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// FontFace returns Go Mono Bold at size points.
func FontFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("opentype.Parse() = %w", err)
	}
	ff, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("opentype.NewFace(%v) = %w", size, err)
	}
	return ff, nil
}

// TextImage draws text in black, wrapped and centered on a white canvas the
// size of the panel. The canvas is laid out landscape when landscape is set,
// so a later 90 degree rotation fills the panel.
func TextImage(spec panel.Spec, text string, face font.Face, landscape bool) image.Image {
	w, h := spec.Width, spec.Height
	if landscape {
		w, h = h, w
	}
	ctx := gg.NewContextForImage(imaging.New(w, h, color.White))
	ctx.SetFontFace(face)
	ctx.SetRGB(0, 0, 0)
	margin := float64(w) / 16
	ctx.DrawStringWrapped(text, float64(w)/2, float64(h)/2, 0.5, 0.5, float64(w)-2*margin, 1.0, gg.AlignCenter)
	return ctx.Image()
}
