package alloc

import (
	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Bump is an append-only engine using a simple bump pointer.
//
// Key characteristics:
//   - O(1) allocation: advance a cursor through the carved extent
//   - Zero engine overhead: no free list, no traversal
//   - Free() only flips the block's free flag - space is never reused
//
// Freed blocks become dead space for the life of the region, which is
// acceptable for single-pass workloads that build a structure once and
// tear the whole region down afterwards.
type Bump struct {
	r *heap.Region

	// cursor is the header offset where the next allocation will be
	// placed. Always <= the region break.
	cursor int32

	chunk int32
	stats Stats
}

// NewBump creates an append-only engine over r. The region's carved extent
// must be empty.
func NewBump(r *heap.Region, opts ...EngineOption) *Bump {
	cfg := engineConfig{chunk: format.MinChunk}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bump{r: r, chunk: cfg.chunk}
}

// Alloc places a block at the cursor, growing the region as needed.
// The space between the new block and the break keeps a free header so the
// carved extent always walks cleanly.
func (b *Bump) Alloc(need int32) (Ref, []byte, error) {
	if need <= 0 {
		return NilRef, nil, nil
	}
	b.stats.AllocCalls++

	// Bound the request before any arithmetic so requests near the int32
	// limit cannot wrap the cursor or the chunk computation.
	if need > b.r.Cap()-format.HeaderSize {
		return NilRef, nil, ErrNoSpace
	}
	need = format.AlignWordI32(need)

	grew := false
	for int64(b.cursor)+format.HeaderSize+int64(need) > int64(b.r.Brk()) {
		if err := b.grow(need); err != nil {
			return NilRef, nil, err
		}
		grew = true
	}
	if grew {
		b.stats.AllocSlowPath++
	} else {
		b.stats.AllocFastPath++
	}

	data := b.r.Bytes()
	blk := b.cursor
	end := blk + format.HeaderSize + need

	// A tail too small to stand alone as a block is absorbed into this
	// allocation rather than left unwalkable.
	if rem := b.r.Brk() - end; rem > 0 && rem < format.MinBlockSize {
		need += rem
		end += rem
	}

	format.WriteBlockHeader(data, blk, need, format.NilRef, false)
	b.cursor = end
	b.stats.BytesAllocated += int64(need)

	// Mark the remainder of the carved extent as one free block.
	if rem := b.r.Brk() - b.cursor; rem >= format.MinBlockSize {
		format.WriteBlockHeader(data, b.cursor, rem-format.HeaderSize, format.NilRef, true)
	}

	payload := data[blk+format.HeaderSize : blk+format.HeaderSize+need]
	return Ref(blk + format.HeaderSize), payload, nil
}

// Free marks the block free by flipping its flag. The space is not tracked
// and will never be handed out again.
func (b *Bump) Free(ref Ref) error {
	if ref == NilRef {
		return nil
	}
	if ref < format.HeaderSize || ref%format.WordSize != 0 {
		return ErrBadRef
	}
	blk := int32(ref) - format.HeaderSize
	if blk+format.HeaderSize > b.r.Brk() {
		return ErrBadRef
	}
	b.stats.FreeCalls++

	data := b.r.Bytes()
	b.stats.BytesFreed += int64(format.BlockSize(data, blk))
	format.SetBlockFree(data, blk, true)
	return nil
}

// Stats returns a snapshot of the engine counters.
func (b *Bump) Stats() Stats { return b.stats }

// Region returns the backing region.
func (b *Bump) Region() *heap.Region { return b.r }

// grow advances the break by at least the configured chunk. Contiguous with
// the previous carved extent, so the cursor keeps walking forward.
func (b *Bump) grow(need int32) error {
	chunk := need + format.HeaderSize
	if chunk < b.chunk {
		chunk = b.chunk
	}
	if _, err := b.r.Advance(chunk); err != nil {
		return ErrNoSpace
	}
	b.stats.GrowCalls++
	b.stats.GrowBytes += int64(chunk)
	return nil
}

// Compile-time interface check
var _ Allocator = (*Bump)(nil)
