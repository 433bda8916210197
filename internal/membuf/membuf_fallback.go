//go:build !unix

// Package membuf provides platform-specific helpers for reserving large
// anonymous byte buffers.
package membuf

import (
	"fmt"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Alloc allocates the buffer on the Go heap when mmap is not available.
// The buffer is not zeroed; callers initialize every byte before reading it.
func Alloc(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("membuf: invalid buffer size %d", n)
	}
	return dirtmake.Bytes(n, n), func() error { return nil }, nil
}
