//go:build unix

// Package membuf provides platform-specific helpers for reserving large
// anonymous byte buffers.
package membuf

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc returns an anonymous private mapping of n bytes.
// The pages are demand-zeroed by the kernel and stay untouched until written,
// so reserving a large region costs no physical memory up front.
func Alloc(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("membuf: invalid mapping size %d", n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
