package display

// Buffers handed out by a bufferPool.
const (
	frameBuffer  = iota // caller supplied frames, copied in by SendImage
	renderBuffer        // pipeline output for FromFile, FromImage and Clear
	lastBuffer          // the frame most recently written to the panel
	numBuffers
)

// bufferPool is a single allocation split into numBuffers equal buffers, each
// twice the packed size of the panel it was created for.
type bufferPool struct {
	arena []byte
	size  int
}

func newBufferPool(packedSize int) *bufferPool {
	size := 2 * packedSize
	return &bufferPool{
		arena: make([]byte, numBuffers*size),
		size:  size,
	}
}

// buffer returns buffer i truncated to n bytes. n must not exceed the buffer
// size.
func (p *bufferPool) buffer(i, n int) []byte {
	start := i * p.size
	return p.arena[start : start+n : start+p.size]
}

func (p *bufferPool) fits(packedSize int) bool {
	return packedSize <= p.size
}
