package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/toothrot/goeink/panel"
)

func TestCacheProcessFile(t *testing.T) {
	spec := panel.EPD128x250.Spec()
	path := writeFile(t, "gradient.png", func(f *os.File) error {
		return png.Encode(f, grayNoise(40, 30, 3))
	})
	want, err := ProcessFile(path, spec, DefaultOptions())
	if err != nil {
		t.Fatalf("ProcessFile(%q) = _, %v", path, err)
	}

	c, err := NewCache(4)
	if err != nil {
		t.Fatalf("NewCache(4) = _, %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := c.ProcessFile(path, spec, DefaultOptions())
		if err != nil {
			t.Fatalf("c.ProcessFile(%q) = _, %v", path, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("c.ProcessFile(%q) call %d differs from ProcessFile", path, i)
		}
		// Callers may scribble on the result.
		got[0] ^= 0xFF
	}
	if hits, misses := c.Stats(); hits != 2 || misses != 1 {
		t.Errorf("c.Stats() = %d, %d, wanted 2, 1", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("c.Len() = %d, wanted 1", c.Len())
	}
}

func TestCacheKey(t *testing.T) {
	spec := panel.EPD128x250.Spec()
	path := writeFile(t, "black.png", func(f *os.File) error {
		return png.Encode(f, imaging.New(10, 10, color.Black))
	})
	c, err := NewCache(0)
	if err != nil {
		t.Fatalf("NewCache(0) = _, %v", err)
	}
	zero, five := 0, 5
	bold := BoldProfile
	variants := []struct {
		desc string
		spec panel.Spec
		opts Options
	}{
		{desc: "default", spec: spec, opts: DefaultOptions()},
		{desc: "other panel", spec: panel.EPD240x416.Spec(), opts: DefaultOptions()},
		{desc: "dithering", spec: spec, opts: Options{Dithering: OrderedBayer}},
		{desc: "rotation", spec: spec, opts: Options{Rotation: Rotate90}},
		{desc: "flip", spec: spec, opts: Options{FlipV: true}},
		{desc: "crop anchor", spec: spec, opts: Options{Scaling: CropCenter, CropX: &zero}},
		{desc: "other crop anchor", spec: spec, opts: Options{Scaling: CropCenter, CropX: &five}},
		{desc: "sierra bold", spec: spec, opts: Options{Dithering: Sierra, Profile: &bold}},
	}
	for i, v := range variants {
		if _, err := c.ProcessFile(path, v.spec, v.opts); err != nil {
			t.Fatalf("c.ProcessFile(%s) = _, %v", v.desc, err)
		}
		if _, misses := c.Stats(); misses != uint64(i+1) {
			t.Errorf("c.ProcessFile(%s) was served from the cache", v.desc)
		}
	}

	// The same anchor value through a different pointer is the same entry.
	again := 5
	if _, err := c.ProcessFile(path, spec, Options{Scaling: CropCenter, CropX: &again}); err != nil {
		t.Fatalf("c.ProcessFile() = _, %v", err)
	}
	if hits, _ := c.Stats(); hits != 1 {
		t.Errorf("c.Stats() hits = %d, wanted 1", hits)
	}

	// Rewriting the file invalidates its entries.
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, imaging.New(10, 10, color.White)); err != nil {
		t.Fatal(err)
	}
	f.Close()
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	got, err := c.ProcessFile(path, spec, DefaultOptions())
	if err != nil {
		t.Fatalf("c.ProcessFile() = _, %v", err)
	}
	if !bytes.Equal(got, spec.WhiteImage()) {
		t.Errorf("c.ProcessFile() after rewrite returned the stale frame")
	}
}

func TestCacheEvicts(t *testing.T) {
	spec := panel.EPD128x250.Spec()
	path := writeFile(t, "white.png", func(f *os.File) error {
		return png.Encode(f, imaging.New(4, 4, color.White))
	})
	c, err := NewCache(1)
	if err != nil {
		t.Fatalf("NewCache(1) = _, %v", err)
	}
	for _, d := range []Dithering{None, OrderedBayer, None} {
		if _, err := c.ProcessFile(path, spec, Options{Dithering: d}); err != nil {
			t.Fatalf("c.ProcessFile(%v) = _, %v", d, err)
		}
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 3 {
		t.Errorf("c.Stats() = %d, %d, wanted 0, 3", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("c.Len() = %d, wanted 1", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("c.Len() after Purge = %d, wanted 0", c.Len())
	}
}

func TestCacheErrors(t *testing.T) {
	spec := panel.EPD128x250.Spec()
	c, err := NewCache(2)
	if err != nil {
		t.Fatalf("NewCache(2) = _, %v", err)
	}
	if _, err := c.ProcessFile("frame.svg", spec, DefaultOptions()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("c.ProcessFile(frame.svg) = _, %v, wanted %v", err, ErrUnsupportedFormat)
	}
	if _, err := c.ProcessFile("missing.png", spec, DefaultOptions()); !errors.Is(err, ErrDecode) {
		t.Errorf("c.ProcessFile(missing.png) = _, %v, wanted %v", err, ErrDecode)
	}
	if _, err := c.ProcessFile("missing.png", spec, Options{Dithering: Dithering(99)}); err == nil {
		t.Errorf("c.ProcessFile(invalid options) = _, nil, wanted error")
	}
	if c.Len() != 0 {
		t.Errorf("c.Len() = %d after failures, wanted 0", c.Len())
	}
}
