package heap

import (
	"errors"
	"fmt"

	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/membuf"
)

// ErrRegionFull indicates that advancing the break cursor would exceed the
// region's capacity. The region is left unchanged.
var ErrRegionFull = errors.New("heap: region exhausted")

// Region is the fixed-size backing store for an allocator engine.
// Zero-copy: engines read and write block headers directly in the buffer.
type Region struct {
	data    []byte
	brk     int32
	cleanup func() error
}

type regionConfig struct {
	capacity int
	useMmap  bool
}

// Option configures a Region at creation time.
type Option func(*regionConfig) error

// WithCapacity sets the total region capacity in bytes.
func WithCapacity(n int) Option {
	return func(c *regionConfig) error {
		if n < format.MinBlockSize {
			return fmt.Errorf("heap: capacity %d below minimum block size %d", n, format.MinBlockSize)
		}
		if n > format.MaxRegionSize {
			return fmt.Errorf("heap: capacity %d exceeds maximum region size", n)
		}
		c.capacity = n
		return nil
	}
}

// WithMmap backs the region with an anonymous private mapping instead of a
// Go heap buffer. On platforms without mmap this falls back to the heap.
func WithMmap() Option {
	return func(c *regionConfig) error {
		c.useMmap = true
		return nil
	}
}

// New creates a Region. The default capacity is 1MiB.
func New(opts ...Option) (*Region, error) {
	cfg := regionConfig{capacity: format.DefaultCapacity}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.useMmap {
		data, cleanup, err := membuf.Alloc(cfg.capacity)
		if err != nil {
			return nil, fmt.Errorf("heap: mapping region: %w", err)
		}
		return &Region{data: data, cleanup: cleanup}, nil
	}

	// Skip zeroing: bytes past the break cursor are never read, and carved
	// space has its headers written before any traversal.
	data := dirtmake.Bytes(cfg.capacity, cfg.capacity)
	return &Region{data: data, cleanup: func() error { return nil }}, nil
}

// Bytes returns the full backing buffer. Engines index it with header
// offsets; content past Brk() is uninitialized.
func (r *Region) Bytes() []byte { return r.data }

// Cap returns the total region capacity in bytes.
func (r *Region) Cap() int32 { return int32(len(r.data)) }

// Brk returns the break cursor: the offset one past the carved extent.
func (r *Region) Brk() int32 { return r.brk }

// Avail returns the number of bytes not yet carved into blocks.
func (r *Region) Avail() int32 { return r.Cap() - r.brk }

// Advance moves the break cursor forward by n bytes and returns the offset
// of the newly carved chunk. Returns ErrRegionFull, leaving the cursor
// unchanged, when the region cannot hold n more bytes.
func (r *Region) Advance(n int32) (int32, error) {
	if n <= 0 {
		return 0, fmt.Errorf("heap: invalid advance %d", n)
	}
	if r.brk+n > r.Cap() || r.brk+n < r.brk {
		return 0, ErrRegionFull
	}
	off := r.brk
	r.brk += n
	return off, nil
}

// Reset returns the break cursor to zero, discarding the carved extent.
// Block headers are left in place but are no longer reachable; the next
// engine to carve the region overwrites them. Intended for reusing one
// buffer across runs.
func (r *Region) Reset() { r.brk = 0 }

// Close releases the backing buffer. The Region must not be used afterwards.
func (r *Region) Close() error {
	if r.cleanup == nil {
		return nil
	}
	err := r.cleanup()
	r.cleanup = nil
	r.data = nil
	r.brk = 0
	return err
}
