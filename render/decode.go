package render

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ico "github.com/biessek/golang-ico"
	"github.com/ftrvxmtrx/tga"
	"github.com/lukegb/dds"
	"github.com/spakin/netpbm"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrDecode is returned when an image cannot be loaded.
	ErrDecode = errors.New("image decode failed")
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	// Errors carrying it also match ErrDecode.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

type decodeFunc func(io.Reader) (image.Image, error)

// Decoders are chosen by extension rather than sniffed through
// image.Decode: the tga format has no magic number and would claim files
// meant for other decoders.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".ico":  ico.Decode,
	".tga":  tga.Decode,
	".dds":  dds.Decode,
	".pbm":  decodeNetpbm,
	".pgm":  decodeNetpbm,
	".ppm":  decodeNetpbm,
	".pnm":  decodeNetpbm,
	".pam":  decodeNetpbm,
}

func decodeNetpbm(r io.Reader) (image.Image, error) {
	return netpbm.Decode(r, nil)
}

// SupportedExtensions lists the accepted file extensions, sorted, with the
// leading dot.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for e := range decoders {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether path has an extension Open can decode.
func IsSupported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Open decodes the image at path. The extension is checked before the file is
// touched.
func Open(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("Open(%q): %w: %w %q", path, ErrDecode, ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Open(%q): %w: %w", path, ErrDecode, err)
	}
	defer f.Close()
	img, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("Open(%q): %w: %w", path, ErrDecode, err)
	}
	return img, nil
}
