// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package epd drives SSD1680 family monochrome e-Paper panels over SPI, such as
// the 2.13 inch 128x250 and 3.7 inch 240x416 modules.
package epd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/toothrot/goeink/display"
	"github.com/toothrot/goeink/panel"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// Device is a client for the e-Paper controller. It implements
// display.Protocol.
//
// Standard pin locations on a Raspberry Pi header are as follows:
//
//	Busy - Busy      - GPIO 9
//	CLK  - SPI0 SCLK - GPIO 11
//	CS   - SPI0 CE0  - GPIO 8
//	DC   - Data/Cmd  - GPIO 7
//	DIN  - SPI0 MOSI - GPIO 10
//	RST  - Reset     - GPIO 13
type Device struct {
	hw   *hardware
	spec panel.Spec
	port io.Closer
}

var _ display.Protocol = (*Device)(nil)

type Pins struct {
	// Busy pin name, typically "GPIO9"
	Busy string
	// CS pin name. Empty when the SPI controller drives CE0.
	CS string
	// DC pin name, typically "GPIO7"
	DC string
	// RST pin name, typically "GPIO13"
	RST string
	// SPI port name for spireg.Open. Empty selects the first port.
	SPI string
}

var DefaultPins = Pins{
	Busy: "GPIO9",
	DC:   "GPIO7",
	RST:  "GPIO13",
}

// defaultTxLimit is used when the SPI port does not report its own limit.
const defaultTxLimit = 4096

// New opens the panel for fw on the given pins.
//
//	d, err := epd.New(epd.DefaultPins, panel.EPD128x250)
//	if err != nil {
//	  // Handle error.
//	}
func New(p Pins, fw panel.Firmware) (*Device, error) {
	spec := fw.Spec()
	if spec.Width == 0 {
		return nil, fmt.Errorf("%w: unsupported firmware %v", panel.ErrConfiguration, fw)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host.Init() = %w", err)
	}

	dc := gpioreg.ByName(p.DC)
	if dc == nil {
		return nil, fmt.Errorf("invalid dc pin %q", p.DC)
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("dc.Out(%v) = %w", gpio.Low, err)
	}

	var cs gpio.PinOut
	if p.CS != "" {
		pin := gpioreg.ByName(p.CS)
		if pin == nil {
			return nil, fmt.Errorf("invalid cs pin %q", p.CS)
		}
		if err := pin.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("cs.Out(%v) = %w", gpio.High, err)
		}
		cs = pin
	}

	rst := gpioreg.ByName(p.RST)
	if rst == nil {
		return nil, fmt.Errorf("invalid rst pin %q", p.RST)
	}
	if err := rst.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("rst.Out(%v) = %w", gpio.High, err)
	}

	busy := gpioreg.ByName(p.Busy)
	if busy == nil {
		return nil, fmt.Errorf("invalid busy pin %q", p.Busy)
	}
	if err := busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("busy.In(%v, %v) = %w", gpio.PullNoChange, gpio.NoEdge, err)
	}

	port, err := spireg.Open(p.SPI)
	if err != nil {
		return nil, fmt.Errorf("spireg.Open(%q) = _, %w", p.SPI, err)
	}
	// 20Mhz is the max for write operations. Wire length and health impact the
	// maximum workable speed.
	c, err := port.Connect(20*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		connerr := fmt.Errorf("port.Connect(%v, %v, %v) = %w", 20*physic.MegaHertz, spi.Mode0, 8, err)
		if err := port.Close(); err != nil {
			return nil, fmt.Errorf("port.Close() = %w while handling %q", err, connerr)
		}
		return nil, connerr
	}

	txLimit := defaultTxLimit
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		txLimit = l.MaxTxSize()
	}
	d := newDevice(&hardware{
		txLimit: txLimit,
		c:       c,
		dc:      dc,
		cs:      cs,
		rst:     rst,
		busy:    busy,
		delay:   time.Sleep,
	}, spec)
	d.port = port
	return d, nil
}

func newDevice(hw *hardware, spec panel.Spec) *Device {
	return &Device{hw: hw, spec: spec}
}

// Opener returns a display.Opener that opens fw on p.
func Opener(p Pins, fw panel.Firmware) display.Opener {
	return func() (display.Protocol, error) {
		d, err := New(p, fw)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func (d *Device) sendCommand(cmd command, data ...byte) error {
	n, err := d.hw.CommandWriter().Write(append([]byte{byte(cmd)}, data...))
	if err != nil {
		return fmt.Errorf("sendCommand(%v) wrote %d bytes: %w", cmd, n, err)
	}
	return nil
}

// waitUntilIdle polls the busy pin until the controller releases it.
func (d *Device) waitUntilIdle() {
	for d.hw.busy.Read() == gpio.High {
		d.hw.delay(10 * time.Millisecond)
	}
}

// reset pulses the reset line. It also wakes the controller from deep sleep.
func (d *Device) reset() error {
	if err := d.hw.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("rst.Out(%v) = %w", gpio.Low, err)
	}
	d.hw.delay(10 * time.Millisecond)
	if err := d.hw.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("rst.Out(%v) = %w", gpio.High, err)
	}
	d.hw.delay(10 * time.Millisecond)
	return nil
}

// sequence sends commands in order, stopping at the first error.
func (d *Device) sequence(cmds ...[]byte) error {
	for _, c := range cmds {
		if err := d.sendCommand(command(c[0]), c[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) lastRow() (lo, hi byte) {
	return byte((d.spec.Height - 1) % 256), byte((d.spec.Height - 1) / 256)
}

// InitHardware resets the controller and programs the panel geometry.
func (d *Device) InitHardware() error {
	now := time.Now()
	defer func(start time.Time) {
		log.Printf("InitHardware: %s", time.Since(start).String())
	}(now)
	if err := d.reset(); err != nil {
		return err
	}
	d.waitUntilIdle()
	if err := d.sendCommand(swReset); err != nil {
		return err
	}
	d.waitUntilIdle()

	lo, hi := d.lastRow()
	err := d.sequence(
		// Gate lines: height-1, default scan order.
		[]byte{byte(driverOutputControl), lo, hi, 0x00},
		// X increments, Y decrements.
		[]byte{byte(dataEntryMode), 0x01},
		[]byte{byte(setRAMXStartEnd), 0x00, byte(d.spec.Stride() - 1)},
		[]byte{byte(setRAMYStartEnd), lo, hi, 0x00, 0x00},
		[]byte{byte(borderWaveformControl), 0x05},
		[]byte{byte(displayUpdateControl1), 0x00, 0x80},
		// Internal temperature sensor.
		[]byte{byte(tempSensorControl), 0x80},
		[]byte{byte(setRAMXAddressCounter), 0x00},
		[]byte{byte(setRAMYAddressCounter), lo, hi},
	)
	if err != nil {
		return err
	}
	d.waitUntilIdle()
	return nil
}

// InitPartialMode switches the border waveform for partial refreshes and
// rewinds the RAM address counters.
func (d *Device) InitPartialMode() error {
	lo, hi := d.lastRow()
	return d.sequence(
		[]byte{byte(borderWaveformControl), 0x80},
		[]byte{byte(setRAMXAddressCounter), 0x00},
		[]byte{byte(setRAMYAddressCounter), lo, hi},
	)
}

// WriteCommand sends a bare command byte.
func (d *Device) WriteCommand(cmd byte) error {
	return d.sendCommand(command(cmd))
}

// WriteImageData streams data to the controller in transaction sized batches.
func (d *Device) WriteImageData(data []byte) error {
	if n, err := d.hw.DataWriter().Write(data); err != nil {
		return fmt.Errorf("WriteImageData wrote %d of %d bytes: %w", n, len(data), err)
	}
	return nil
}

// UpdateDisplay runs the refresh waveform for mode and waits for it to finish.
func (d *Device) UpdateDisplay(mode panel.Mode) error {
	seq := updateFull
	if mode == panel.Partial {
		seq = updatePartial
	}
	if err := d.sequence(
		[]byte{byte(displayUpdateControl2), seq},
		[]byte{byte(masterActivation)},
	); err != nil {
		return err
	}
	d.waitUntilIdle()
	return nil
}

// Sleep tells the controller to enter deep sleep. InitHardware wakes it.
func (d *Device) Sleep() error {
	if err := d.sendCommand(deepSleepMode, 0x01); err != nil {
		return err
	}
	d.hw.delay(100 * time.Millisecond)
	return nil
}

// Spec returns the panel geometry.
func (d *Device) Spec() panel.Spec {
	return d.spec
}

// WriteRAMCommand returns the command that starts a black/white frame write.
func (d *Device) WriteRAMCommand() byte {
	return byte(writeRAMBW)
}

// Close releases the SPI port.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	if err != nil {
		return fmt.Errorf("port.Close() = %w", err)
	}
	return nil
}
