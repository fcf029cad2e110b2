package render

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/disintegration/imaging"
	"github.com/toothrot/goeink/panel"
)

// Verbose enables elapsed time logging for each pipeline run.
var Verbose = false

func timed(name string) func() {
	if !Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		log.Printf("%s: %s", name, time.Since(start).String())
	}
}

func (o Options) validate() error {
	if o.Scaling < Letterbox || o.Scaling > Stretch {
		return fmt.Errorf("invalid option: %v", o.Scaling)
	}
	if _, ok := ditheringNames[o.Dithering]; !ok {
		return fmt.Errorf("invalid option: %v", o.Dithering)
	}
	if o.Rotation < Rotate0 || o.Rotation > Rotate270 {
		return fmt.Errorf("invalid option: Rotation(%d)", int(o.Rotation))
	}
	return nil
}

func (o Options) profile() Profile {
	if o.Profile != nil {
		return *o.Profile
	}
	return DefaultProfile(o.Dithering)
}

// Process runs img through the whole pipeline and returns a packed buffer of
// exactly spec.PackedSize() bytes.
func Process(img image.Image, spec panel.Spec, opts Options) ([]byte, error) {
	return ProcessInto(make([]byte, spec.PackedSize()), img, spec, opts)
}

// ProcessInto is Process writing into dst, which must hold at least
// spec.PackedSize() bytes. It returns the packed prefix of dst.
func ProcessInto(dst []byte, img image.Image, spec panel.Spec, opts Options) ([]byte, error) {
	defer timed("Process")()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("Process: %w: invalid panel size %v", panel.ErrConfiguration, spec)
	}
	if len(dst) < spec.PackedSize() {
		return nil, fmt.Errorf("Process: buffer holds %d bytes, %v needs %d", len(dst), spec, spec.PackedSize())
	}
	t := Transform(img, opts.FlipH, opts.FlipV, opts.Rotation)
	s := Scale(t, spec.Width, spec.Height, opts)
	b := DitherProfile(Grayscale(s), opts.Dithering, opts.profile())
	return PackInto(dst, b)
}

// ProcessFile decodes the image at path and runs it through Process.
func ProcessFile(path string, spec panel.Spec, opts Options) ([]byte, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Process(img, spec, opts)
}

// PackExact packs an image that already has the panel's dimensions, without
// scaling or dithering. A pixel is white when the plain average of its red,
// green and blue channels is above 128.
func PackExact(img image.Image, spec panel.Spec) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != spec.Width || b.Dy() != spec.Height {
		return nil, fmt.Errorf("PackExact: %w: invalid image size %dx%d, expected %v", ErrDecode, b.Dx(), b.Dy(), spec)
	}
	n := imaging.Clone(img)
	g := image.NewGray(image.Rect(0, 0, spec.Width, spec.Height))
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			p := n.Pix[y*n.Stride+x*4:]
			g.Pix[y*g.Stride+x] = uint8((uint32(p[0]) + uint32(p[1]) + uint32(p[2])) / 3)
		}
	}
	return Pack(g), nil
}
