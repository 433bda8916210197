package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Block is a read-only view of one block in the carved extent.
type Block struct {
	Off  int32 // header offset within the region
	Size int32 // payload bytes, excluding the header
	Free bool
}

// End returns the offset one past the block's payload.
func (b Block) End() int32 {
	return b.Off + format.HeaderSize + b.Size
}

// Blocks walks the carved extent front to back and returns a view of every
// block. Headers are decoded in place; a corrupt size field (non-positive,
// unaligned, or running past the break cursor) stops the walk with an error.
func (r *Region) Blocks() ([]Block, error) {
	var blocks []Block
	data := r.data
	for off := int32(0); off < r.brk; {
		if off+format.HeaderSize > r.brk {
			return blocks, fmt.Errorf("heap: truncated header at offset %d", off)
		}
		size := format.BlockSize(data, off)
		if size <= 0 || size%format.WordSize != 0 {
			return blocks, fmt.Errorf("heap: bad block size %d at offset %d", size, off)
		}
		end := off + format.HeaderSize + size
		if end > r.brk {
			return blocks, fmt.Errorf("heap: block at offset %d runs past break %d", off, r.brk)
		}
		blocks = append(blocks, Block{
			Off:  off,
			Size: size,
			Free: format.BlockFree(data, off),
		})
		off = end
	}
	return blocks, nil
}
