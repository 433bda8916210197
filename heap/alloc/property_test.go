package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/verify"
)

// liveBlock tracks an outstanding allocation during randomized runs.
type liveBlock struct {
	ref  Ref
	buf  []byte
	seed byte
}

// TestRandomizedWorkload drives the engine with a seeded mix of
// allocations and releases, checking payload integrity and structural
// consistency as it goes. Deterministic seeds keep failures replayable.
func TestRandomizedWorkload(t *testing.T) {
	for _, seed := range []int64{1, 42, 1997} {
		rng := rand.New(rand.NewSource(seed))
		a := newTestEngine(t, 16*1024*1024)

		var live []liveBlock
		for i := 0; i < 200; i++ {
			if len(live) == 0 || rng.Intn(2) == 0 {
				need := int32(1 + rng.Intn(64*1024))
				ref, buf, err := a.Alloc(need)
				require.NoError(t, err, "seed %d iter %d", seed, i)
				require.GreaterOrEqual(t, len(buf), int(need))

				pat := byte(rng.Intn(256))
				fillPattern(buf, pat)
				live = append(live, liveBlock{ref: ref, buf: buf, seed: pat})
			} else {
				victim := rng.Intn(len(live))
				lb := live[victim]
				checkPattern(t, lb.buf, lb.seed)
				require.NoError(t, a.Free(lb.ref), "seed %d iter %d", seed, i)
				live = append(live[:victim], live[victim+1:]...)
			}

			if i%25 == 0 {
				for _, lb := range live {
					checkPattern(t, lb.buf, lb.seed)
				}
				assertConsistent(t, a)
			}
		}

		for _, lb := range live {
			checkPattern(t, lb.buf, lb.seed)
			require.NoError(t, a.Free(lb.ref))
		}

		// With everything released, adjacent merging must collapse the
		// carved extent back into a single free block.
		rep := verify.Check(a.Region(), a.FreeBlocks())
		require.True(t, rep.OK(), "seed %d: %v", seed, rep.Problems)
		blocks, err := a.Region().Blocks()
		require.NoError(t, err)
		require.Len(t, blocks, 1, "seed %d", seed)
		require.True(t, blocks[0].Free)
		assertFullyCoalesced(t, a)
	}
}
