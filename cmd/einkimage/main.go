// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary einkimage displays an image file on an e-ink panel.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/toothrot/goeink/display"
	"github.com/toothrot/goeink/internal/cli"
	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
)

var (
	firmware = cli.FirmwareFlag(flag.CommandLine)
	renderF  = cli.RegisterRenderFlags(flag.CommandLine)
	mode     = flag.String("mode", panel.Full.String(), "Refresh mode: full or partial.")
	invert   = flag.Bool("invert", false, "Swap black and white.")
	clearF   = flag.Bool("clear", false, "Clear the panel before drawing.")
	sleep    = flag.Bool("sleep", true, "Put the panel to sleep when done.")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] image", os.Args[0])
	}
	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func run(path string) (err error) {
	opts, err := renderF.Options()
	if err != nil {
		return err
	}
	m, err := panel.ParseMode(*mode)
	if err != nil {
		return err
	}

	d, err := cli.OpenDisplay(*firmware)
	if err != nil {
		return err
	}
	defer cli.Cleanup(d, &err)

	if *clearF {
		log.Println("Clearing")
		if err := d.Clear(); err != nil {
			return err
		}
	}

	log.Printf("Displaying %s", path)
	if err := show(d, path, m, opts); err != nil {
		return err
	}

	if *sleep {
		log.Println("Powering off")
		return d.Sleep()
	}
	return nil
}

func show(d *display.Display, path string, m panel.Mode, opts render.Options) error {
	if !*invert {
		return d.FromFile(path, m, opts)
	}
	spec, err := d.Spec()
	if err != nil {
		return err
	}
	buf, err := render.ProcessFile(path, spec, opts)
	if err != nil {
		return err
	}
	inv, err := render.Invert(buf, spec.Width, spec.Height)
	if err != nil {
		return err
	}
	return d.SendImage(inv, m)
}
