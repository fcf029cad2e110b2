package render

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// thresholder binarizes one row of samples: dst[i] is 255 when the saturating
// sum src[i]+bias[i] is greater than level, 0 otherwise. A nil bias adds
// nothing. Implementations must produce identical output for identical input.
type thresholder interface {
	threshold(dst, src, bias []byte, level uint8)
	String() string
}

// rowThresholder is picked once at startup. The word parallel compare pays off
// on the 64 bit cores the panels are driven from; elsewhere the scalar loop is
// used.
var rowThresholder = detectThresholder()

func detectThresholder() thresholder {
	if cpu.ARM64.HasASIMD || cpu.X86.HasSSE2 {
		return swarThresholder{}
	}
	return scalarThresholder{}
}

// scalarThresholder is the reference implementation.
type scalarThresholder struct{}

func (scalarThresholder) String() string { return "scalar" }

func (scalarThresholder) threshold(dst, src, bias []byte, level uint8) {
	for i, p := range src {
		v := int(p)
		if bias != nil {
			v += int(bias[i])
		}
		if v > 255 {
			v = 255
		}
		if v > int(level) {
			dst[i] = 255
		} else {
			dst[i] = 0
		}
	}
}

const (
	evenLanes = 0x00FF00FF00FF00FF
	laneOnes  = 0x0001000100010001
)

// swarThresholder compares 8 samples per 64 bit word. Even and odd bytes are
// spread into 16 bit lanes so the sum cannot carry into a neighbour; adding
// 511-level makes bit 9 of a lane the result of sum > level.
type swarThresholder struct{}

func (swarThresholder) String() string { return "swar64" }

func (swarThresholder) threshold(dst, src, bias []byte, level uint8) {
	n := len(src)
	if level == 255 {
		// Saturated sums never exceed 255.
		for i := range dst[:n] {
			dst[i] = 0
		}
		return
	}
	k := uint64(511-int(level)) * laneOnes
	i := 0
	for ; i+8 <= n; i += 8 {
		x := binary.LittleEndian.Uint64(src[i:])
		var t uint64
		if bias != nil {
			t = binary.LittleEndian.Uint64(bias[i:])
		}
		xe := x & evenLanes
		xo := x >> 8 & evenLanes
		te := t & evenLanes
		to := t >> 8 & evenLanes
		even := (xe + te + k) >> 9 & laneOnes
		odd := (xo + to + k) >> 9 & laneOnes
		binary.LittleEndian.PutUint64(dst[i:], even*0xFF|odd*0xFF<<8)
	}
	var tail []byte
	if bias != nil {
		tail = bias[i:n]
	}
	scalarThresholder{}.threshold(dst[i:n], src[i:n], tail, level)
}
