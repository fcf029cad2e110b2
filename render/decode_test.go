package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

func writeFile(t *testing.T, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatalf("encoding %s: %v", name, err)
	}
	return path
}

func TestOpen(t *testing.T) {
	src := imaging.New(6, 4, color.NRGBA{R: 255, A: 255})
	cases := []struct {
		name   string
		encode func(f *os.File) error
		want   image.Rectangle
	}{
		{
			name:   "a.png",
			encode: func(f *os.File) error { return png.Encode(f, src) },
			want:   image.Rect(0, 0, 6, 4),
		},
		{
			name:   "b.BMP",
			encode: func(f *os.File) error { return bmp.Encode(f, image.NewGray(src.Bounds())) },
			want:   image.Rect(0, 0, 6, 4),
		},
		{
			name: "c.pgm",
			encode: func(f *os.File) error {
				_, err := f.Write(append([]byte("P5\n3 2\n255\n"), 0, 64, 128, 192, 255, 10))
				return err
			},
			want: image.Rect(0, 0, 3, 2),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeFile(t, c.name, c.encode)
			img, err := Open(path)
			if err != nil {
				t.Fatalf("Open(%q) = _, %v", path, err)
			}
			if img.Bounds() != c.want {
				t.Errorf("Open(%q).Bounds() = %v, wanted %v", path, img.Bounds(), c.want)
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		desc            string
		path            string
		wantUnsupported bool
		wantNotExist    bool
	}{
		{desc: "unsupported, never opened", path: filepath.Join(dir, "missing.svg"), wantUnsupported: true},
		{desc: "no extension", path: filepath.Join(dir, "README"), wantUnsupported: true},
		{desc: "missing", path: filepath.Join(dir, "missing.png"), wantNotExist: true},
		{desc: "corrupt", path: corrupt},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := Open(c.path)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Open(%q) = _, %v, wanted %v", c.path, err, ErrDecode)
			}
			if got := errors.Is(err, ErrUnsupportedFormat); got != c.wantUnsupported {
				t.Errorf("errors.Is(%v, ErrUnsupportedFormat) = %v, wanted %v", err, got, c.wantUnsupported)
			}
			if got := errors.Is(err, fs.ErrNotExist); got != c.wantNotExist {
				t.Errorf("errors.Is(%v, fs.ErrNotExist) = %v, wanted %v", err, got, c.wantNotExist)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.bmp", "f.tif", "g.tiff", "h.webp", "i.ico", "j.pbm", "k.ppm", "l.tga", "m.dds"} {
		if !IsSupported(p) {
			t.Errorf("IsSupported(%q) = false, wanted true", p)
		}
	}
	for _, p := range []string{"a.svg", "b", "c.png.txt", "d.heic"} {
		if IsSupported(p) {
			t.Errorf("IsSupported(%q) = true, wanted false", p)
		}
	}
	exts := SupportedExtensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("SupportedExtensions() = %v, wanted sorted", exts)
		}
	}
}
