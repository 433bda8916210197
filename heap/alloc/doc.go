// Package alloc provides block allocation and free-list management over a
// heap.Region.
//
// # Overview
//
// This package implements manual memory management on a fixed-capacity byte
// region. Every block carries a fixed-size header encoded in the region
// itself (see internal/format); engines hand out payload offsets and byte
// slices, never raw pointers.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Alloc(need): allocate a payload of at least need bytes
//   - Free(ref): release a previously returned payload for reuse
//
// # Implementations
//
// FirstFit: the general-purpose engine
//
//   - Singly linked free list threaded through block headers, LIFO insertion
//   - Linear first-fit search, O(free blocks) per allocation
//   - Block splitting with a minimum-viable-remainder threshold
//   - Address-contiguity-checked coalescing after every Free
//   - Growth from the break cursor in 16KiB minimum chunks
//
// Bump: append-only engine
//
//   - O(1) bump-pointer allocation from the break cursor
//   - Free only flips the block's free flag; space is never reused
//   - For single-pass workloads where reclamation is unnecessary
//
// Locked: a wrapper serializing any engine behind one mutex
//
// # Usage Example
//
//	r, err := heap.New(heap.WithCapacity(1 << 20))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	a := alloc.NewFirstFit(r)
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, release the block
//	err = a.Free(ref)
//
// # Results and Errors
//
// Alloc(0) returns NilRef with a nil error: a zero-size request is a defined
// no-op, not a failure. Region exhaustion returns ErrNoSpace and leaves the
// engine fully consistent; a later Free can make a later Alloc succeed.
//
// Freeing NilRef is a no-op. Freeing a ref that was never returned by Alloc,
// or freeing the same ref twice, is undefined behavior: the engines perform
// only cheap bounds checks (ErrBadRef), not ownership tracking.
//
// # Thread Safety
//
// Engines are not thread-safe and not reentrant. Find-fit, split and
// coalesce all traverse one shared free list, so there is no finer-grained
// locking opportunity; wrap the engine in Locked to share it.
package alloc
