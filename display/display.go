// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display manages the lifecycle of one physical e-ink panel: bringing
// it up, pushing packed frames to it, putting it to sleep and releasing it.
//
// A Display serializes every operation behind one mutex. A panel is a single
// shared device, so a program should own exactly one Display per panel and
// pass it to whatever needs to draw.
package display

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/toothrot/goeink/panel"
	"github.com/toothrot/goeink/render"
)

// Protocol is the command level interface to a panel controller.
type Protocol interface {
	// InitHardware resets the controller and loads its configuration. It also
	// wakes a sleeping controller.
	InitHardware() error
	WriteCommand(cmd byte) error
	WriteImageData(data []byte) error
	// UpdateDisplay starts a refresh and blocks until the panel is idle.
	UpdateDisplay(mode panel.Mode) error
	// InitPartialMode sends the preamble required before a partial refresh.
	InitPartialMode() error
	Sleep() error
	Spec() panel.Spec
	// WriteRAMCommand is the command byte that starts a frame write.
	WriteRAMCommand() byte
}

// Opener acquires the hardware behind a Protocol. If the returned Protocol
// implements io.Closer, Close is called when the Display releases it.
type Opener func() (Protocol, error)

// State is the lifecycle state of a Display.
type State int

const (
	Uninitialized State = iota
	Ready
	Sleeping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Sleeping:
		return "sleeping"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Display drives one panel.
type Display struct {
	open Opener

	mu    sync.Mutex
	proto Protocol
	state State
	// pool is allocated by the first successful Init and kept for the life of
	// the Display.
	pool    *bufferPool
	lastLen int
	// cache memoizes FromFile conversions when set.
	cache *render.Cache
}

// New returns an uninitialized Display that acquires its hardware with open.
func New(open Opener) *Display {
	return &Display{open: open}
}

// Init brings the panel to Ready. It is a no-op on a Ready display and wakes a
// sleeping one.
func (d *Display) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Ready:
		return nil
	case Sleeping:
		if err := d.proto.InitHardware(); err != nil {
			return hardwareError("InitHardware()", err)
		}
		d.state = Ready
		log.Printf("display: woke %v", d.proto.Spec())
		return nil
	}

	p, err := d.open()
	if err != nil {
		return hardwareError("open()", err)
	}
	spec := p.Spec()
	if d.pool != nil && !d.pool.fits(spec.PackedSize()) {
		err := fmt.Errorf("%w: panel %v does not fit the %d byte buffers allocated at first init", panel.ErrConfiguration, spec, d.pool.size)
		return errors.Join(err, release(p))
	}
	if err := p.InitHardware(); err != nil {
		return errors.Join(hardwareError("InitHardware()", err), release(p))
	}
	if d.pool == nil {
		d.pool = newBufferPool(spec.PackedSize())
	}
	d.proto = p
	d.state = Ready
	d.lastLen = 0
	log.Printf("display: initialized %v", spec)
	return nil
}

func release(p Protocol) error {
	if c, ok := p.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return hardwareError("Close()", err)
		}
	}
	return nil
}

// ready returns the protocol if the display is Ready. d.mu must be held.
func (d *Display) ready() (Protocol, error) {
	if d.state != Ready {
		return nil, fmt.Errorf("%w (state %v)", ErrNotInitialized, d.state)
	}
	return d.proto, nil
}

// SendImage writes a packed frame to the panel and refreshes it. buf must be
// exactly Spec().PackedSize() bytes.
func (d *Display) SendImage(buf []byte, mode panel.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ready()
	if err != nil {
		return err
	}
	size := p.Spec().PackedSize()
	if len(buf) != size {
		return &InvalidDataSizeError{Expected: size, Actual: len(buf)}
	}
	frame := d.pool.buffer(frameBuffer, size)
	copy(frame, buf)
	return d.send(p, frame, mode)
}

// send runs the write sequence for one frame. d.mu must be held.
func (d *Display) send(p Protocol, frame []byte, mode panel.Mode) error {
	now := time.Now()
	defer func(start time.Time) {
		log.Printf("SendImage(%v): %s", mode, time.Since(start).String())
	}(now)

	switch mode {
	case panel.Full:
	case panel.Partial:
		if err := p.InitPartialMode(); err != nil {
			return hardwareError("InitPartialMode()", err)
		}
	default:
		return fmt.Errorf("unknown refresh mode %v", mode)
	}
	cmd := p.WriteRAMCommand()
	if err := p.WriteCommand(cmd); err != nil {
		return hardwareError(fmt.Sprintf("WriteCommand(%#02x)", cmd), err)
	}
	if err := p.WriteImageData(frame); err != nil {
		return hardwareError(fmt.Sprintf("WriteImageData(%d bytes)", len(frame)), err)
	}
	if err := p.UpdateDisplay(mode); err != nil {
		return hardwareError(fmt.Sprintf("UpdateDisplay(%v)", mode), err)
	}
	d.lastLen = copy(d.pool.buffer(lastBuffer, len(frame)), frame)
	return nil
}

// Clear fills the panel with white using a full refresh.
func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ready()
	if err != nil {
		return err
	}
	frame := d.pool.buffer(renderBuffer, p.Spec().PackedSize())
	for i := range frame {
		frame[i] = 0xFF
	}
	return d.send(p, frame, panel.Full)
}

// FromFile decodes the image at path, renders it for the panel and sends it.
func (d *Display) FromFile(path string, mode panel.Mode, opts render.Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ready()
	if err != nil {
		return err
	}
	if d.cache != nil {
		buf, err := d.cache.ProcessFile(path, p.Spec(), opts)
		if err != nil {
			return err
		}
		frame := d.pool.buffer(renderBuffer, len(buf))
		copy(frame, buf)
		return d.send(p, frame, mode)
	}
	img, err := render.Open(path)
	if err != nil {
		return err
	}
	return d.render(p, img, mode, opts)
}

// SetCache makes FromFile reuse conversions from c. A nil c disables caching.
func (d *Display) SetCache(c *render.Cache) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = c
}

// FromImage renders img for the panel and sends it.
func (d *Display) FromImage(img image.Image, mode panel.Mode, opts render.Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ready()
	if err != nil {
		return err
	}
	return d.render(p, img, mode, opts)
}

func (d *Display) render(p Protocol, img image.Image, mode panel.Mode, opts render.Options) error {
	spec := p.Spec()
	frame, err := render.ProcessInto(d.pool.buffer(renderBuffer, spec.PackedSize()), img, spec, opts)
	if err != nil {
		return err
	}
	return d.send(p, frame, mode)
}

// Sleep puts a Ready panel into deep sleep. Init wakes it.
func (d *Display) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.ready()
	if err != nil {
		return err
	}
	if err := p.Sleep(); err != nil {
		return hardwareError("Sleep()", err)
	}
	d.state = Sleeping
	log.Printf("display: sleeping")
	return nil
}

// Cleanup puts the panel to sleep if it is Ready and releases the hardware.
// The hardware is released even if sleeping fails. Cleanup on an
// uninitialized Display does nothing.
func (d *Display) Cleanup() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Uninitialized {
		return nil
	}
	var errs []error
	if d.state == Ready {
		if err := d.proto.Sleep(); err != nil {
			errs = append(errs, hardwareError("Sleep()", err))
		}
	}
	errs = append(errs, release(d.proto))
	d.proto = nil
	d.state = Uninitialized
	log.Printf("display: released")
	return errors.Join(errs...)
}

// State returns the current lifecycle state.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Spec returns the geometry of the open panel.
func (d *Display) Spec() (panel.Spec, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.proto == nil {
		return panel.Spec{}, ErrNotInitialized
	}
	return d.proto.Spec(), nil
}

// LastFrame returns a copy of the last frame written to the panel, or nil if
// nothing has been sent since Init.
func (d *Display) LastFrame() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil || d.lastLen == 0 {
		return nil
	}
	return append([]byte(nil), d.pool.buffer(lastBuffer, d.lastLen)...)
}
