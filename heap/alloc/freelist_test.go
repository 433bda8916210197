package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// allocFour carves four 64-byte blocks and returns their refs. The blocks
// are address-contiguous at the front of the region's first chunk.
func allocFour(t *testing.T, a *FirstFit) [4]Ref {
	t.Helper()
	var refs [4]Ref
	for i := range refs {
		ref, _, err := a.Alloc(64)
		require.NoError(t, err)
		refs[i] = ref
	}
	return refs
}

func Test_FreeListLIFOOrder(t *testing.T) {
	a := newTestEngine(t, 256*1024)
	refs := allocFour(t, a)

	// Free two blocks that are NOT address-adjacent (indexes 0 and 2), so
	// coalescing cannot disturb the list.
	require.NoError(t, a.Free(refs[0]))
	require.NoError(t, a.Free(refs[2]))

	list := a.FreeBlocks()
	require.Len(t, list, 3, "two freed blocks plus the grow remainder")

	// Head-first insertion: most recently freed comes first.
	assert.Equal(t, int32(refs[2])-format.HeaderSize, list[0])
	assert.Equal(t, int32(refs[0])-format.HeaderSize, list[1])
	assertConsistent(t, a)
}

func Test_FirstFitPrefersListOrder(t *testing.T) {
	a := newTestEngine(t, 256*1024)
	refs := allocFour(t, a)

	require.NoError(t, a.Free(refs[0]))
	require.NoError(t, a.Free(refs[2]))

	// Both freed blocks fit; the scan must select the list head, which is
	// the most recently freed block.
	ref, _, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, refs[2], ref)

	// Next fit comes from the remaining freed block.
	ref, _, err = a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, refs[0], ref)
	assertConsistent(t, a)
}

func Test_UnlinkMiddleMember(t *testing.T) {
	a := newTestEngine(t, 256*1024)
	refs := allocFour(t, a)

	require.NoError(t, a.Free(refs[0]))
	require.NoError(t, a.Free(refs[2]))
	// List is now [refs[2], refs[0], remainder]. A request too big for the
	// 64-byte members must skip to the remainder, unlinking from the middle
	// of nothing - but a 64-byte request after taking refs[2] exercises the
	// predecessor patch on the second member.
	ref, _, err := a.Alloc(64)
	require.NoError(t, err)
	require.Equal(t, refs[2], ref)

	big, _, err := a.Alloc(8 * 1024)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, big)

	// refs[0] must still be on the list, untouched by the big allocation.
	list := a.FreeBlocks()
	require.NotEmpty(t, list)
	assert.Contains(t, list, int32(refs[0])-format.HeaderSize)
	assertConsistent(t, a)
}

func Test_FreeListSurvivesExhaustedScan(t *testing.T) {
	a := newTestEngine(t, 40*1024)

	// Carve the whole region.
	ref, _, err := a.Alloc(16 * 1024)
	require.NoError(t, err)
	_, _, err = a.Alloc(15 * 1024)
	require.NoError(t, err)

	require.NoError(t, a.Free(ref))
	before := a.FreeBlocks()

	// Too big for the freed block and the region cannot grow: the failed
	// request must leave the list exactly as it was.
	_, _, err = a.Alloc(20 * 1024)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, before, a.FreeBlocks())
	assertConsistent(t, a)
}
