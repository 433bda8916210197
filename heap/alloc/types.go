package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Ref is a payload offset into the region: the first usable byte of an
// allocation, exactly one header past the owning block's header. Refs are
// word-aligned and stable for the lifetime of the allocation.
type Ref = uint32

// NilRef is the "no allocation" result. Alloc returns it for zero-size
// requests and on exhaustion; Free accepts it as a defined no-op.
const NilRef = format.NilRef

// Allocator defines the engine contract.
//
// Implementations:
//   - FirstFit: free-list engine with splitting and coalescing
//   - Bump: append-only engine that never reuses freed space
//   - Locked: mutex wrapper around another Allocator
type Allocator interface {
	// Alloc allocates a payload of at least need bytes.
	// Returns the payload ref, a slice over the payload, and any error.
	// need <= 0 yields (NilRef, nil, nil).
	Alloc(need int32) (Ref, []byte, error)

	// Free releases a payload previously returned by Alloc.
	// Free(NilRef) is a no-op.
	Free(ref Ref) error
}
