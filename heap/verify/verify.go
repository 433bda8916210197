// Package verify checks structural invariants of a heap region.
//
// It walks the carved extent block by block and cross-checks the free list
// against the block headers. Tests run it after mutation sequences; the
// heapctl CLI exposes it for inspecting a workload's end state.
package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Report summarizes one verification pass.
type Report struct {
	Blocks         int
	FreeBlocks     int
	AllocatedBytes int64
	FreeBytes      int64
	CarvedBytes    int64

	// Problems lists every invariant violation found. Empty means the
	// region is consistent.
	Problems []string
}

// OK reports whether the pass found no violations.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

func (r *Report) problemf(msg string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(msg, args...))
}

// Check walks r's carved extent and validates it. freeList, when non-nil,
// is the free-list membership in list order (header offsets) and is checked
// for consistency with the headers; pass nil for engines without a free
// list.
//
// Invariants checked:
//  1. Headers and sizes are word-aligned and in bounds.
//  2. Block extents tile the carved extent exactly (no gaps, no overlap).
//  3. Every free-list member lies on a block boundary, is flagged free,
//     and appears exactly once.
//  4. Every free-flagged block is a free-list member (when a list is given).
func Check(r *heap.Region, freeList []int32) *Report {
	rep := &Report{CarvedBytes: int64(r.Brk())}
	data := r.Bytes()
	brk := r.Brk()

	// Walk the carved extent and index block boundaries.
	freeAt := make(map[int32]bool)
	for off := int32(0); off < brk; {
		if off+format.HeaderSize > brk {
			rep.problemf("truncated header at offset %d", off)
			return rep
		}
		size := format.BlockSize(data, off)
		if size <= 0 {
			rep.problemf("non-positive block size %d at offset %d", size, off)
			return rep
		}
		if size%format.WordSize != 0 {
			rep.problemf("unaligned block size %d at offset %d", size, off)
			return rep
		}
		end := off + format.HeaderSize + size
		if end > brk {
			rep.problemf("block at offset %d runs past break %d", off, brk)
			return rep
		}

		free := format.BlockFree(data, off)
		freeAt[off] = free
		rep.Blocks++
		if free {
			rep.FreeBlocks++
			rep.FreeBytes += int64(size)
		} else {
			rep.AllocatedBytes += int64(size)
		}
		off = end
	}

	if freeList == nil {
		return rep
	}

	// Cross-check list membership against the headers.
	seen := make(map[int32]bool, len(freeList))
	for _, off := range freeList {
		free, isBlock := freeAt[off]
		switch {
		case !isBlock:
			rep.problemf("free-list member %d is not a block boundary", off)
		case !free:
			rep.problemf("free-list member %d is not flagged free", off)
		case seen[off]:
			rep.problemf("free-list member %d appears twice", off)
		}
		seen[off] = true
	}
	for off, free := range freeAt {
		if free && !seen[off] {
			rep.problemf("free block %d missing from free list", off)
		}
	}
	return rep
}
