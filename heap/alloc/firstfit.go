package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Runtime flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// FirstFit is the general-purpose engine: a singly linked free list threaded
// through block headers, scanned front to back for the first block that
// fits. Freed and split-off blocks are pushed on the list head, so traversal
// order is reverse release order, not address order.
type FirstFit struct {
	r *heap.Region

	// freeHead is the header offset of the free-list head, NilRef when the
	// list is empty. Links live in the headers themselves.
	freeHead uint32

	// chunk is the minimum amount carved from the region per grow step.
	chunk int32

	stats Stats
}

// EngineOption configures an engine at creation time.
type EngineOption func(*engineConfig)

type engineConfig struct {
	chunk int32
}

// WithChunkSize overrides the minimum grow chunk (default 16KiB). The value
// is aligned up to the word size; values outside
// [MinBlockSize, MaxRegionSize-WordSize] are ignored.
func WithChunkSize(n int32) EngineOption {
	return func(c *engineConfig) {
		if n >= format.MinBlockSize && n <= format.MaxRegionSize-format.WordSize {
			c.chunk = format.AlignWordI32(n)
		}
	}
}

// NewFirstFit creates a first-fit engine over r. The region's carved extent
// must be empty or have been produced by a FirstFit engine.
func NewFirstFit(r *heap.Region, opts ...EngineOption) *FirstFit {
	cfg := engineConfig{chunk: format.MinChunk}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FirstFit{
		r:        r,
		freeHead: format.NilRef,
		chunk:    cfg.chunk,
	}
}

// Alloc allocates a payload of at least need bytes.
//
// need <= 0 returns (NilRef, nil, nil): a defined no-op, not an error.
// The request is aligned up to the word size, satisfied first-fit from the
// free list, or by carving a new chunk from the break cursor. ErrNoSpace is
// returned only when both fail; the engine is left unchanged in that case.
func (a *FirstFit) Alloc(need int32) (Ref, []byte, error) {
	if need <= 0 {
		return NilRef, nil, nil
	}
	a.stats.AllocCalls++

	// A request larger than the region minus one header can never be
	// satisfied, and aligning it could overflow int32. Bound it before any
	// arithmetic; exhaustion, not a panic.
	if need > a.r.Cap()-format.HeaderSize {
		return NilRef, nil, ErrNoSpace
	}
	need = format.AlignWordI32(need)

	blk, grew, err := a.findFit(need)
	if err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] exhausted: need=%d brk=%d cap=%d\n",
				need, a.r.Brk(), a.r.Cap())
		}
		return NilRef, nil, err
	}
	if grew {
		a.stats.AllocSlowPath++
	} else {
		a.stats.AllocFastPath++
	}

	data := a.r.Bytes()
	format.SetBlockFree(data, blk, false)

	size := format.BlockSize(data, blk)
	a.stats.BytesAllocated += int64(size)

	payload := data[blk+format.HeaderSize : blk+format.HeaderSize+size]
	return Ref(blk + format.HeaderSize), payload, nil
}

// Free releases the payload at ref and merges any free blocks left
// address-adjacent to it.
//
// Free(NilRef) is a no-op. The owning header is recovered by stepping back
// exactly one header from ref; passing a ref not returned by Alloc, or one
// already freed, is undefined behavior beyond the cheap bounds checks here.
func (a *FirstFit) Free(ref Ref) error {
	if ref == NilRef {
		return nil
	}
	blk, err := a.checkRef(ref)
	if err != nil {
		return err
	}
	a.stats.FreeCalls++

	data := a.r.Bytes()
	a.stats.BytesFreed += int64(format.BlockSize(data, blk))

	format.SetBlockFree(data, blk, true)
	a.pushFree(blk)
	a.coalesce()
	return nil
}

// Stats returns a snapshot of the engine counters.
func (a *FirstFit) Stats() Stats { return a.stats }

// Region returns the backing region.
func (a *FirstFit) Region() *heap.Region { return a.r }

// FreeBlocks returns the header offsets of the free-list members in list
// order. Used by verification and instrumentation.
func (a *FirstFit) FreeBlocks() []int32 {
	var refs []int32
	data := a.r.Bytes()
	for cur := a.freeHead; cur != format.NilRef; cur = format.BlockNext(data, int32(cur)) {
		refs = append(refs, int32(cur))
	}
	return refs
}

// FreeBytes returns the total payload bytes currently on the free list.
func (a *FirstFit) FreeBytes() int64 {
	var total int64
	data := a.r.Bytes()
	for cur := a.freeHead; cur != format.NilRef; cur = format.BlockNext(data, int32(cur)) {
		total += int64(format.BlockSize(data, int32(cur)))
	}
	return total
}

// checkRef validates a payload ref and returns the owning header offset.
func (a *FirstFit) checkRef(ref Ref) (int32, error) {
	if ref < format.HeaderSize || ref%format.WordSize != 0 {
		return 0, ErrBadRef
	}
	blk := int32(ref) - format.HeaderSize
	if blk+format.HeaderSize > a.r.Brk() {
		return 0, ErrBadRef
	}
	size := format.BlockSize(a.r.Bytes(), blk)
	if size <= 0 || size%format.WordSize != 0 ||
		int64(blk)+format.HeaderSize+int64(size) > int64(a.r.Brk()) {
		return 0, ErrBadRef
	}
	return blk, nil
}

// findFit returns a block able to hold need bytes, already unlinked from the
// free list and split down. Grows the region when no listed block fits; the
// bool result reports whether growth happened.
func (a *FirstFit) findFit(need int32) (int32, bool, error) {
	data := a.r.Bytes()

	prev := format.NilRef
	for cur := a.freeHead; cur != format.NilRef; cur = format.BlockNext(data, int32(cur)) {
		off := int32(cur)
		if format.BlockFree(data, off) && format.BlockSize(data, off) >= need {
			next := format.BlockNext(data, off)
			if prev == format.NilRef {
				a.freeHead = next
			} else {
				format.SetBlockNext(data, int32(prev), next)
			}
			a.split(off, need)
			return off, false, nil
		}
		prev = cur
	}

	blk, err := a.grow(need)
	if err != nil {
		return 0, false, err
	}
	return blk, true, nil
}

// split carves a remainder block out of blk when blk's payload is large
// enough that the remainder can stand alone as a free block. blk must not be
// on the free list. When the remainder would be smaller than MinBlockSize
// the block is left oversized (internal fragmentation, not an error).
func (a *FirstFit) split(blk, need int32) {
	data := a.r.Bytes()
	size := format.BlockSize(data, blk)
	// int64 so the threshold cannot wrap for requests near the int32 limit.
	if int64(size) < int64(need)+format.MinBlockSize {
		return
	}

	rem := blk + format.HeaderSize + need
	format.WriteBlockHeader(data, rem, size-need-format.HeaderSize, format.BlockNext(data, blk), true)
	format.SetBlockSize(data, blk, need)
	format.SetBlockNext(data, blk, uint32(rem))

	a.pushFree(rem)
	a.stats.SplitCount++
}

// grow carves a fresh chunk from the break cursor: at least the configured
// minimum chunk, more when the request itself is larger. The new block
// starts allocated and is split immediately when the excess is reusable.
// This is the only point at which the carved extent grows.
func (a *FirstFit) grow(need int32) (int32, error) {
	chunk := need + format.HeaderSize
	if chunk < a.chunk {
		chunk = a.chunk
	}

	blk, err := a.r.Advance(chunk)
	if err != nil {
		return 0, ErrNoSpace
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(chunk)

	data := a.r.Bytes()
	format.WriteBlockHeader(data, blk, chunk-format.HeaderSize, format.NilRef, false)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] #%d: need=%d chunk=%d brk=%d\n",
			a.stats.GrowCalls, need, chunk, a.r.Brk())
	}

	if int64(format.BlockSize(data, blk)) > int64(need)+format.MinBlockSize {
		a.split(blk, need)
	}
	return blk, nil
}

// pushFree links blk at the head of the free list.
func (a *FirstFit) pushFree(blk int32) {
	format.SetBlockNext(a.r.Bytes(), blk, a.freeHead)
	a.freeHead = uint32(blk)
}

// coalesce merges free blocks that are contiguous in the region's address
// space. List order is release order, not address order, so each member's
// physical successor is located by offset arithmetic and merged only when it
// is itself free; merging on list adjacency alone would corrupt block sizes
// whenever releases interleave.
func (a *FirstFit) coalesce() {
	data := a.r.Bytes()
	brk := a.r.Brk()

	for cur := a.freeHead; cur != format.NilRef; cur = format.BlockNext(data, int32(cur)) {
		off := int32(cur)
		for {
			next := format.BlockEnd(data, off)
			if next+format.HeaderSize > brk || !format.BlockFree(data, next) {
				break
			}
			a.unlinkFree(next)
			format.SetBlockSize(data, off,
				format.BlockSize(data, off)+format.HeaderSize+format.BlockSize(data, next))
			a.stats.CoalesceCount++
		}
	}
}

// unlinkFree removes blk from the free list. No-op if blk is not a member.
func (a *FirstFit) unlinkFree(blk int32) {
	data := a.r.Bytes()
	target := uint32(blk)

	if a.freeHead == target {
		a.freeHead = format.BlockNext(data, blk)
		return
	}
	for cur := a.freeHead; cur != format.NilRef; cur = format.BlockNext(data, int32(cur)) {
		if format.BlockNext(data, int32(cur)) == target {
			format.SetBlockNext(data, int32(cur), format.BlockNext(data, blk))
			return
		}
	}
}

// Compile-time interface check
var _ Allocator = (*FirstFit)(nil)
