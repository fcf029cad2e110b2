// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary einkclock displays a clock on an e-ink panel, using partial
// refreshes between periodic full refreshes.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toothrot/goeink/display"
	"github.com/toothrot/goeink/internal/cli"
	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
	"golang.org/x/image/font"
)

var (
	firmware  = cli.FirmwareFlag(flag.CommandLine)
	format    = flag.String("format", "15:04", "time.Time format.")
	size      = flag.Float64("size", 48, "Font size in points.")
	interval  = flag.Duration("interval", time.Minute, "Time between updates.")
	fullEvery = flag.Int("full-every", 10, "Run a full refresh every n updates to clear ghosting.")
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
	log.Println("Clearing")
	if err := d.Clear(); err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	var updates int
	update(d, face, time.Now(), &updates)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case s := <-c:
			log.Printf("Got signal %q, quitting", s.String())
			return d.Clear()
		case t := <-ticker.C:
			update(d, face, t, &updates)
		}
	}
}

func update(d *display.Display, face font.Face, t time.Time, updates *int) {
	spec, err := d.Spec()
	if err != nil {
		log.Printf("Spec() = %v", err)
		return
	}
	mode := panel.Partial
	if *fullEvery > 0 && *updates%*fullEvery == 0 {
		mode = panel.Full
	}
	*updates++

	opts := render.DefaultOptions()
	opts.Dithering = render.None
	opts.Rotation = render.Rotate90
	img := cli.TextImage(spec, t.Format(*format), face, true)
	if err := d.FromImage(img, mode, opts); err != nil {
		log.Printf("FromImage(%v) = %v", mode, err)
	}
}
