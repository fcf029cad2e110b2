package render

import (
	"fmt"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/toothrot/goeink/panel"
)

// DefaultCacheSize is the number of frames NewCache keeps when given a
// non-positive size.
const DefaultCacheSize = 100

// cacheKey identifies one conversion. The file's size and modification time
// are part of the key so an edited file is converted again.
type cacheKey struct {
	path    string
	size    int64
	modTime int64

	spec               panel.Spec
	scaling            Scaling
	dithering          Dithering
	rotation           Rotation
	flipH, flipV       bool
	hasCropX, hasCropY bool
	cropX, cropY       int
	profile            Profile
}

// Cache memoizes ProcessFile in memory, evicting the least recently used
// frame when full. It is safe for concurrent use.
type Cache struct {
	frames *lru.Cache[cacheKey, []byte]

	hits, misses atomic.Uint64
}

// NewCache returns a Cache holding up to size frames.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	frames, err := lru.New[cacheKey, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("lru.New(%d) = _, %w", size, err)
	}
	return &Cache{frames: frames}, nil
}

func newCacheKey(path string, fi os.FileInfo, spec panel.Spec, opts Options) cacheKey {
	k := cacheKey{
		path:      path,
		size:      fi.Size(),
		modTime:   fi.ModTime().UnixNano(),
		spec:      spec,
		scaling:   opts.Scaling,
		dithering: opts.Dithering,
		rotation:  opts.Rotation,
		flipH:     opts.FlipH,
		flipV:     opts.FlipV,
		profile:   opts.profile(),
	}
	if opts.CropX != nil {
		k.hasCropX, k.cropX = true, *opts.CropX
	}
	if opts.CropY != nil {
		k.hasCropY, k.cropY = true, *opts.CropY
	}
	return k
}

// ProcessFile is ProcessFile with memoization. The returned buffer is the
// caller's to modify.
func (c *Cache) ProcessFile(path string, spec panel.Spec, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !IsSupported(path) {
		// Reports the decode error without touching the file.
		return ProcessFile(path, spec, opts)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ProcessFile(%q): %w: %w", path, ErrDecode, err)
	}
	key := newCacheKey(path, fi, spec, opts)
	if buf, ok := c.frames.Get(key); ok {
		c.hits.Add(1)
		return append([]byte(nil), buf...), nil
	}
	c.misses.Add(1)
	buf, err := ProcessFile(path, spec, opts)
	if err != nil {
		return nil, err
	}
	c.frames.Add(key, append([]byte(nil), buf...))
	return buf, nil
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	return c.frames.Len()
}

// Stats returns the number of lookups served from and missing the cache.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge drops every cached frame.
func (c *Cache) Purge() {
	c.frames.Purge()
}
