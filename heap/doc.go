// Package heap provides the backing region for a user-space heap allocator.
//
// # Overview
//
// A Region is a single fixed-capacity byte buffer plus a break cursor.
// Allocator engines (see heap/alloc) carve the buffer into blocks, each
// prefixed with a fixed-size header encoded directly into the buffer:
//
//	[Block 0 header][Block 0 payload][Block 1 header][Block 1 payload]...
//	                                                  ^ break cursor grows this way
//
// The break cursor marks the boundary between carved, header-structured
// space and never-yet-used space. It only moves forward: once a prefix of
// the region has been carved into blocks it stays structured for the life
// of the region, even if every block in it is freed.
//
// # Creating a Region
//
//	r, err := heap.New(heap.WithCapacity(4 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// By default the buffer lives on the Go heap. On unix, WithMmap selects an
// anonymous private mapping instead, so a large capacity reserves address
// space without committing physical pages.
//
// # Thread Safety
//
// A Region has no internal synchronization. See heap/alloc for the single
// lock wrapper used when an engine must be shared across goroutines.
package heap
