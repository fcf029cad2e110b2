// Package cli holds the flags shared by the e-ink binaries.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/toothrot/goeink/devices/epd"
	"github.com/toothrot/goeink/display"
	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
)

// RenderFlags are the pipeline options as command line flags.
type RenderFlags struct {
	scaling string
	dither  string
	rotate  int
	flipH   bool
	flipV   bool
	cropX   int
	cropY   int
	verbose bool
}

// RegisterRenderFlags defines the pipeline flags on fs.
func RegisterRenderFlags(fs *flag.FlagSet) *RenderFlags {
	f := &RenderFlags{}
	fs.StringVar(&f.scaling, "scaling", render.Letterbox.String(), "Scaling method: letterbox, crop or stretch.")
	fs.StringVar(&f.dither, "dither", render.FloydSteinberg.String(), "Dithering method: floyd-steinberg, none, sierra, sierra2, sierra-lite or bayer.")
	fs.IntVar(&f.rotate, "rotate", 0, "Clockwise rotation in degrees, a multiple of 90.")
	fs.BoolVar(&f.flipH, "fliph", false, "Mirror the image left to right.")
	fs.BoolVar(&f.flipV, "flipv", false, "Mirror the image top to bottom.")
	fs.IntVar(&f.cropX, "cropx", -1, "Left edge of the crop window for -scaling=crop. Negative centers it.")
	fs.IntVar(&f.cropY, "cropy", -1, "Top edge of the crop window for -scaling=crop. Negative centers it.")
	fs.BoolVar(&f.verbose, "v", false, "Log pipeline timings.")
	return f
}

// Options converts the parsed flags.
func (f *RenderFlags) Options() (render.Options, error) {
	opts := render.DefaultOptions()
	var err error
	if opts.Scaling, err = render.ParseScaling(f.scaling); err != nil {
		return opts, err
	}
	if opts.Dithering, err = render.ParseDithering(f.dither); err != nil {
		return opts, err
	}
	if opts.Rotation, err = render.ParseRotation(f.rotate); err != nil {
		return opts, err
	}
	opts.FlipH, opts.FlipV = f.flipH, f.flipV
	if f.cropX >= 0 {
		x := f.cropX
		opts.CropX = &x
	}
	if f.cropY >= 0 {
		y := f.cropY
		opts.CropY = &y
	}
	render.Verbose = f.verbose
	return opts, nil
}

// Firmware resolves the panel variant. A non-empty flag value overrides the
// environment and config files.
func Firmware(flagValue string) (panel.Firmware, error) {
	if flagValue != "" {
		if err := panel.DefaultConfig.SetFirmwareString(flagValue); err != nil {
			return 0, err
		}
	}
	return panel.DefaultConfig.Firmware()
}

// FirmwareFlag defines the -firmware flag on fs.
func FirmwareFlag(fs *flag.FlagSet) *string {
	return fs.String("firmware", "", fmt.Sprintf("Panel variant, EPD128x250 or EPD240x416. Defaults to $%s or eink.conf.", panel.EnvFirmware))
}

// OpenDisplay resolves the firmware, opens the panel on the default pins and
// initializes it. Callers own the returned Display and must Cleanup it.
func OpenDisplay(firmwareFlag string) (*display.Display, error) {
	fw, err := Firmware(firmwareFlag)
	if err != nil {
		return nil, err
	}
	d := display.New(epd.Opener(epd.DefaultPins, fw))
	log.Printf("Initializing %v", fw)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Cleanup releases d and folds any failure into *errp.
//
//	defer cli.Cleanup(d, &err)
func Cleanup(d *display.Display, errp *error) {
	if err := d.Cleanup(); err != nil {
		*errp = errors.Join(*errp, err)
	}
}
