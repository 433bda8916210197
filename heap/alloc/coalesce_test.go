package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// Test_ForwardCoalescing verifies that freeing two address-contiguous
// blocks merges them into one block spanning both payloads plus the
// absorbed header.
func Test_ForwardCoalescing(t *testing.T) {
	a := newTestEngine(t, 256*1024)

	ref1, _, err := a.Alloc(256)
	require.NoError(t, err)
	ref2, _, err := a.Alloc(256)
	require.NoError(t, err)
	// Guard block keeps the grow remainder from merging into the pair.
	guard, _, err := a.Alloc(256)
	require.NoError(t, err)

	require.NoError(t, a.Free(ref1))
	require.NoError(t, a.Free(ref2))

	blk1 := int32(ref1) - format.HeaderSize
	data := a.Region().Bytes()

	require.True(t, format.BlockFree(data, blk1))
	assert.Equal(t, int32(256+format.HeaderSize+256), format.BlockSize(data, blk1),
		"merged block spans both payloads plus one header")

	// The merged block must satisfy a request of the combined size without
	// growing the region.
	brk := a.Region().Brk()
	ref, buf, err := a.Alloc(256 + format.HeaderSize + 256)
	require.NoError(t, err)
	assert.Equal(t, ref1, ref)
	assert.Len(t, buf, 256+format.HeaderSize+256)
	assert.Equal(t, brk, a.Region().Brk())

	_ = guard
	assertConsistent(t, a)
}

// Test_BackwardCoalescing verifies the merge also happens when the lower
// block is freed second.
func Test_BackwardCoalescing(t *testing.T) {
	a := newTestEngine(t, 256*1024)

	ref1, _, err := a.Alloc(256)
	require.NoError(t, err)
	ref2, _, err := a.Alloc(256)
	require.NoError(t, err)
	guard, _, err := a.Alloc(256)
	require.NoError(t, err)

	require.NoError(t, a.Free(ref2))
	require.NoError(t, a.Free(ref1))

	blk1 := int32(ref1) - format.HeaderSize
	data := a.Region().Bytes()
	assert.Equal(t, int32(256+format.HeaderSize+256), format.BlockSize(data, blk1))

	_ = guard
	assertFullyCoalesced(t, a)
}

// Test_NoFalseMergeOnListAdjacency replays the interleaved pattern where
// two blocks released back to back are list neighbors but NOT address
// neighbors. Merging on list adjacency alone would fuse them and corrupt
// the block in between.
func Test_NoFalseMergeOnListAdjacency(t *testing.T) {
	a := newTestEngine(t, 256*1024)

	refA, _, err := a.Alloc(256)
	require.NoError(t, err)
	refB, bufB, err := a.Alloc(256)
	require.NoError(t, err)
	refC, _, err := a.Alloc(256)
	require.NoError(t, err)
	guard, _, err := a.Alloc(256)
	require.NoError(t, err)

	fillPattern(bufB, 0x5A)

	// A and C are separated by live block B but become adjacent ON THE
	// LIST once freed back to back.
	require.NoError(t, a.Free(refA))
	require.NoError(t, a.Free(refC))

	data := a.Region().Bytes()
	blkA := int32(refA) - format.HeaderSize
	blkC := int32(refC) - format.HeaderSize

	assert.Equal(t, int32(256), format.BlockSize(data, blkA), "A must keep its own size")
	assert.Equal(t, int32(256), format.BlockSize(data, blkC), "C must keep its own size")
	checkPattern(t, bufB, 0x5A)

	// A further release interleaved with an allocation must still never
	// produce a false merge.
	refD, _, err := a.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, a.Free(refD))
	require.NoError(t, a.Free(refB))

	// Now A, B, C are all free and contiguous: they must collapse into one.
	assert.Equal(t, int32(3*256+2*format.HeaderSize), format.BlockSize(data, blkA))

	_ = guard
	assertFullyCoalesced(t, a)
}

// Test_FullReleaseCollapsesToOneBlock frees everything and expects the
// whole carved extent to coalesce into a single free block, since grow
// chunks are address-contiguous.
func Test_FullReleaseCollapsesToOneBlock(t *testing.T) {
	a := newTestEngine(t, 1024*1024)

	var refs []Ref
	for _, n := range []int32{8, 500, 4096, 32 * 1024, 7, 123} {
		ref, _, err := a.Alloc(n)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		require.NoError(t, a.Free(ref))
	}

	list := a.FreeBlocks()
	require.Len(t, list, 1)
	assert.Equal(t, int32(0), list[0])

	data := a.Region().Bytes()
	assert.Equal(t, a.Region().Brk()-format.HeaderSize, format.BlockSize(data, 0),
		"single free block spans the whole carved extent")
	assertFullyCoalesced(t, a)
}
