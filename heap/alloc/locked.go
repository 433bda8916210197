package alloc

import (
	"sync"

	"github.com/Jille/easymutex"
)

// Locked serializes access to an inner engine with a single mutex.
//
// The engines themselves are single-threaded and non-reentrant: find-fit,
// split and coalesce all traverse the one shared free list, so one lock
// around each entry point is the whole locking strategy.
type Locked struct {
	mtx   sync.Mutex
	inner Allocator
}

// NewLocked wraps inner so it can be shared across goroutines.
func NewLocked(inner Allocator) *Locked {
	return &Locked{inner: inner}
}

// Alloc allocates from the inner engine under the lock.
func (l *Locked) Alloc(need int32) (Ref, []byte, error) {
	em := easymutex.LockMutex(&l.mtx)
	defer em.Unlock()
	return l.inner.Alloc(need)
}

// Free releases to the inner engine under the lock.
func (l *Locked) Free(ref Ref) error {
	em := easymutex.LockMutex(&l.mtx)
	defer em.Unlock()
	return l.inner.Free(ref)
}

// Compile-time interface check
var _ Allocator = (*Locked)(nil)
