package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block fits and the region cannot
	// grow further. The engine state is unchanged and remains usable.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadRef indicates an out-of-bounds or unaligned block reference.
	ErrBadRef = errors.New("alloc: bad block reference")
)
