package epd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
)

type hardware struct {
	txLimit int

	mut sync.Mutex
	// c is a perhiph conn.Conn.
	c conn.Conn

	// busy is high while the controller is working.
	busy gpio.PinIn
	// cs is the Chip Enable pin. nil when the SPI controller drives it.
	cs gpio.PinOut
	// dc is the data/command pin.
	dc gpio.PinOut
	// rst is the active low reset pin.
	rst gpio.PinOut

	// delay is time.Sleep outside of tests.
	delay func(time.Duration)
}

func (h *hardware) DataWriter() io.Writer {
	return &batchedWriter{&dataWriter{h}, h.txLimit}
}

func (h *hardware) CommandWriter() io.Writer {
	return &commandWriter{h}
}

// selectChip drives cs low and returns the function that releases it.
func (h *hardware) selectChip() (func() error, error) {
	if h.cs == nil {
		return func() error { return nil }, nil
	}
	if err := h.cs.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("%v.Out(%v) = %w", h.cs.String(), gpio.Low.String(), err)
	}
	return func() error {
		if err := h.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("%v.Out(%v) = %w", h.cs.String(), gpio.High.String(), err)
		}
		return nil
	}, nil
}

type dataWriter struct {
	*hardware
}

// Write sends at most txLimit bytes in one transaction and reports
// io.ErrShortWrite for the rest. Use DataWriter for arbitrary lengths.
func (w *dataWriter) Write(p []byte) (n int, err error) {
	w.mut.Lock()
	defer w.mut.Unlock()
	if len(p) == 0 {
		return 0, nil
	}
	if w.txLimit <= 0 {
		return 0, io.ErrShortWrite
	}
	if err := w.dc.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("%v.Out(%v) = %w", w.dc.String(), gpio.High.String(), err)
	}
	deselect, err := w.selectChip()
	if err != nil {
		return 0, err
	}
	defer func() {
		if e := deselect(); e != nil && err == nil {
			err = e
		}
	}()
	if len(p) > w.txLimit {
		if err := w.c.Tx(p[:w.txLimit], nil); err != nil {
			return 0, fmt.Errorf("%v.Tx(%d bytes) = %w", w.c, w.txLimit, err)
		}
		return w.txLimit, io.ErrShortWrite
	}
	if err := w.c.Tx(p, nil); err != nil {
		return 0, fmt.Errorf("%v.Tx(%d bytes) = %w", w.c, len(p), err)
	}
	return len(p), nil
}

type commandWriter struct {
	*hardware
}

func (w *commandWriter) writeCommand(p byte) (err error) {
	w.mut.Lock()
	defer w.mut.Unlock()
	if err := w.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("%v.Out(%v) = %w", w.dc.String(), gpio.Low.String(), err)
	}
	deselect, err := w.selectChip()
	if err != nil {
		return err
	}
	defer func() {
		if err2 := deselect(); err2 != nil {
			if err != nil {
				err2 = fmt.Errorf("%w, already had error %v", err2, err)
			}
			err = err2
		}
	}()
	if err := w.c.Tx([]byte{p}, nil); err != nil {
		return fmt.Errorf("sending command %s: %w", command(p).String(), err)
	}
	return nil
}

// Write sends p[0] as a command and the rest of p as its parameters.
func (w *commandWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	cmd, data := p[0], p[1:]
	if err := w.writeCommand(cmd); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 1, nil
	}
	n, err := w.DataWriter().Write(data)
	return 1 + n, err
}

// batchedWriter splits writes into chunks of at most batchSize bytes.
type batchedWriter struct {
	dst       io.Writer
	batchSize int
}

func (b *batchedWriter) Write(p []byte) (int, error) {
	if b.batchSize <= 0 {
		return 0, io.ErrShortWrite
	}
	var sent int
	for i := 0; i < len(p); i += b.batchSize {
		j := min(i+b.batchSize, len(p))
		n, err := b.dst.Write(p[i:j])
		sent += n
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}
