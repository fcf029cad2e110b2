// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary einkbanner displays a line of text on an e-ink panel.
package main

import (
	"flag"
	"log"

	"github.com/toothrot/goeink/internal/cli"
	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
)

var (
	firmware = cli.FirmwareFlag(flag.CommandLine)
	text     = flag.String("text", "Hello, world!", "Text to display.")
	size     = flag.Float64("size", 32, "Font size in points.")
	portrait = flag.Bool("portrait", false, "Lay the text out along the long edge of the panel.")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	face, err := cli.FontFace(*size)
	if err != nil {
		return err
	}

	d, err := cli.OpenDisplay(*firmware)
	if err != nil {
		return err
	}
	defer cli.Cleanup(d, &err)
	spec, err := d.Spec()
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	opts.Dithering = render.None
	if !*portrait {
		opts.Rotation = render.Rotate90
	}
	log.Printf("Displaying %q", *text)
	return d.FromImage(cli.TextImage(spec, *text, face, !*portrait), panel.Full, opts)
}
