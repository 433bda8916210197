package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRegion creates a region of the given capacity and closes it when
// the test ends.
func newTestRegion(t testing.TB, capacity int) *heap.Region {
	t.Helper()
	r, err := heap.New(heap.WithCapacity(capacity))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// newTestEngine creates a first-fit engine over a fresh region.
func newTestEngine(t testing.TB, capacity int, opts ...EngineOption) *FirstFit {
	t.Helper()
	return NewFirstFit(newTestRegion(t, capacity), opts...)
}

// fillPattern writes a deterministic byte pattern derived from seed.
func fillPattern(buf []byte, seed byte) {
	for i := range buf {
		buf[i] = seed ^ byte(i)
	}
}

// checkPattern verifies a buffer still holds the pattern fillPattern wrote.
func checkPattern(t testing.TB, buf []byte, seed byte) {
	t.Helper()
	for i := range buf {
		if buf[i] != seed^byte(i) {
			t.Fatalf("payload corrupted at byte %d: got 0x%02x, want 0x%02x",
				i, buf[i], seed^byte(i))
		}
	}
}

// assertConsistent runs the verifier over the engine's region and free list.
func assertConsistent(t testing.TB, a *FirstFit) {
	t.Helper()
	rep := verify.Check(a.Region(), a.FreeBlocks())
	require.Empty(t, rep.Problems, "region invariants violated")
}

// assertFullyCoalesced additionally requires that no two free blocks are
// address-adjacent.
func assertFullyCoalesced(t testing.TB, a *FirstFit) {
	t.Helper()
	assertConsistent(t, a)

	blocks, err := a.Region().Blocks()
	require.NoError(t, err)
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].Free && blocks[i].Free {
			t.Fatalf("adjacent free blocks at offsets %d and %d not coalesced",
				blocks[i-1].Off, blocks[i].Off)
		}
	}
}
