package render

import (
	"image"

	"github.com/makeworld-the-better-one/dither"
)

// Profile shapes the tone curve of the error diffusion methods.
//
// Each sample is first boosted to clamp((p-128)*Gain+128, 0, 255), truncated.
// A sample becomes white when the boosted value, plus any diffused error, is
// greater than Threshold. The quantization error passed to neighbours is
// clamped to ±ErrorLimit so it cannot run away across rows.
type Profile struct {
	Gain       float32
	Threshold  uint8
	ErrorLimit int
}

var (
	// BoldProfile gives crisp, dark output on small panels. It is the default
	// for FloydSteinberg.
	BoldProfile = Profile{Gain: 1.3, Threshold: 115, ErrorLimit: 100}
	// NeutralProfile is textbook error diffusion. It is the default for the
	// Sierra family.
	NeutralProfile = Profile{Gain: 1, Threshold: 128, ErrorLimit: 255}
)

func (p Profile) lut() *[256]uint8 {
	var t [256]uint8
	for i := range t {
		// The conversion rounds the product so no platform fuses the add.
		v := float32((float32(i) - 128) * p.Gain)
		v += 128
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		t[i] = uint8(v)
	}
	return &t
}

// floydSteinberg is the reference Floyd-Steinberg variant: 6/16 ahead instead
// of 7/16 and 2/16 behind-below instead of 3/16, for crisper edges.
var floydSteinberg = dither.ErrorDiffusionMatrix{
	{0, 0, 6.0 / 16},
	{2.0 / 16, 5.0 / 16, 1.0 / 16},
}

type tap struct {
	dx, dy int
	w      float32
}

// taps flattens an error diffusion matrix into neighbour offsets. The current
// pixel is the last zero of the first row.
func taps(m dither.ErrorDiffusionMatrix) []tap {
	cur := 0
	for i, w := range m[0] {
		if w == 0 {
			cur = i
		} else {
			break
		}
	}
	var ts []tap
	for y, row := range m {
		for x, w := range row {
			if w == 0 || (y == 0 && x <= cur) {
				continue
			}
			ts = append(ts, tap{dx: x - cur, dy: y, w: w})
		}
	}
	return ts
}

var kernels = map[Dithering][]tap{
	FloydSteinberg: taps(floydSteinberg),
	Sierra:         taps(dither.Sierra),
	Sierra2Row:     taps(dither.TwoRowSierra),
	SierraLite:     taps(dither.SierraLite),
}

// DefaultProfile returns the tone profile m uses when none is given.
func DefaultProfile(m Dithering) Profile {
	switch m {
	case None, OrderedBayer, Sierra, Sierra2Row, SierraLite:
		return NeutralProfile
	}
	return BoldProfile
}

// Dither reduces g to a binary image of 0 and 255 samples using m and its
// default profile. g is not modified. The output is anchored at the origin and
// is byte for byte deterministic. Unknown methods fall back to FloydSteinberg.
func Dither(g *image.Gray, m Dithering) *image.Gray {
	return DitherProfile(g, m, DefaultProfile(m))
}

// DitherProfile is Dither with an explicit profile. The profile only affects
// the error diffusion methods.
func DitherProfile(g *image.Gray, m Dithering, p Profile) *image.Gray {
	switch m {
	case None:
		return thresholdImage(g, rowThresholder)
	case OrderedBayer:
		return orderedImage(g, rowThresholder)
	}
	ts, ok := kernels[m]
	if !ok {
		ts = kernels[FloydSteinberg]
	}
	return diffuse(g, ts, p)
}

// packedCopy returns the samples of g as a tightly packed w*h slice.
func packedCopy(g *image.Gray) (pix []byte, w, h int) {
	b := g.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]byte, w*h)
	for y := 0; y < h; y++ {
		i := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w:(y+1)*w], g.Pix[i:i+w])
	}
	return pix, w, h
}

func thresholdImage(g *image.Gray, th thresholder) *image.Gray {
	src, w, h := packedCopy(g)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		th.threshold(out.Pix[y*w:(y+1)*w], src[y*w:(y+1)*w], nil, 128)
	}
	return out
}

var bayer4x4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func orderedImage(g *image.Gray, th thresholder) *image.Gray {
	src, w, h := packedCopy(g)
	out := image.NewGray(image.Rect(0, 0, w, h))
	var bias [4][]byte
	for r := range bias {
		bias[r] = make([]byte, w)
		for x := range bias[r] {
			bias[r][x] = bayer4x4[r][x%4] * 16
		}
	}
	for y := 0; y < h; y++ {
		th.threshold(out.Pix[y*w:(y+1)*w], src[y*w:(y+1)*w], bias[y%4], 128)
	}
	return out
}

// diffuse runs serpentine error diffusion: even rows left to right, odd rows
// right to left with the kernel mirrored. Neighbour updates land on the boosted
// buffer and are clamped to [0, 255] one at a time.
func diffuse(g *image.Gray, ts []tap, p Profile) *image.Gray {
	buf, w, h := packedCopy(g)
	lut := p.lut()
	for i, v := range buf {
		buf[i] = lut[v]
	}
	limit := p.ErrorLimit
	if limit < 0 {
		limit = 0
	}
	level := int(p.Threshold)

	for y := 0; y < h; y++ {
		reverse := y%2 == 1
		for i := 0; i < w; i++ {
			x := i
			if reverse {
				x = w - 1 - i
			}
			idx := y*w + x
			old := int(buf[idx])
			nv := 0
			if old > level {
				nv = 255
			}
			buf[idx] = uint8(nv)

			e := old - nv
			if e > limit {
				e = limit
			} else if e < -limit {
				e = -limit
			}
			if e == 0 {
				continue
			}
			for _, t := range ts {
				dx := t.dx
				if reverse {
					dx = -dx
				}
				nx, ny := x+dx, y+t.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				v := int(buf[ni]) + int(float32(e)*t.w)
				if v < 0 {
					v = 0
				} else if v > 255 {
					v = 255
				}
				buf[ni] = uint8(v)
			}
		}
	}
	return &image.Gray{Pix: buf, Stride: w, Rect: image.Rect(0, 0, w, h)}
}
