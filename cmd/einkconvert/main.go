// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary einkconvert renders an image file into a packed 1-bit frame without
// touching any hardware.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/toothrot/goeink/internal/cli"
	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
)

var (
	firmware = cli.FirmwareFlag(flag.CommandLine)
	renderF  = cli.RegisterRenderFlags(flag.CommandLine)
	out      = flag.String("o", "frame.bin", "Output path for the packed frame.")
	preview  = flag.String("preview", "", "Also write the frame as a PNG to this path.")
	exact    = flag.Bool("exact", false, "Pack the image without scaling or dithering. It must match the panel size.")
	invert   = flag.Bool("invert", false, "Swap black and white.")
	formats  = flag.Bool("formats", false, "List supported file extensions and exit.")
)

func main() {
	flag.Parse()
	if *formats {
		fmt.Println(strings.Join(render.SupportedExtensions(), " "))
		return
	}
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] image", os.Args[0])
	}
	path := flag.Arg(0)

	fw, err := cli.Firmware(*firmware)
	if err != nil {
		log.Fatal(err)
	}
	spec := fw.Spec()

	var buf []byte
	if *exact {
		img, err := render.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		buf, err = render.PackExact(img, spec)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		opts, err := renderF.Options()
		if err != nil {
			log.Fatal(err)
		}
		buf, err = render.ProcessFile(path, spec, opts)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *invert {
		if buf, err = render.Invert(buf, spec.Width, spec.Height); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.WriteFile(*out, buf, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %d bytes for %v to %s", len(buf), spec, *out)

	if *preview != "" {
		if err := writePreview(*preview, spec, buf); err != nil {
			log.Fatal(err)
		}
	}
}

func writePreview(path string, spec panel.Spec, buf []byte) error {
	img, err := panel.ImageFromBuffer(spec, buf)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png.Encode(%q) = %w", path, err)
	}
	return f.Close()
}
