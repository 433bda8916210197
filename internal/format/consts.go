// Package format defines the binary layout of the heap region.
//
// The region is a flat byte buffer. Every block, allocated or free, starts
// with a fixed-size header encoded little-endian at an 8-byte-aligned offset.
// All offsets in this package are relative to the region start.
package format

const (
	// WordSize is the machine word alignment unit. Payload sizes and block
	// offsets are always multiples of WordSize.
	WordSize = 8

	// WordAlignmentMask is used by the Align helpers.
	WordAlignmentMask = WordSize - 1

	// HeaderSize is the encoded size of a block header. A block's payload
	// starts exactly HeaderSize bytes after its header.
	HeaderSize = 16

	// MinBlockSize is the smallest viable free block: its own header plus one
	// word of payload. A split never produces a remainder smaller than this.
	MinBlockSize = HeaderSize + WordSize

	// MinChunk is the minimum amount carved from the region in one grow step.
	// Growing in 16KiB chunks amortizes grow calls for small allocations.
	MinChunk = 16 * 1024

	// DefaultCapacity is the region capacity when no option overrides it.
	DefaultCapacity = 1024 * 1024

	// MaxRegionSize is the largest supported region capacity. Block offsets
	// are int32, so the region cannot exceed 2GB.
	MaxRegionSize = 1<<31 - 1
)

// Block header field offsets, relative to the header start.
const (
	// BlockSizeOffset holds the payload size in bytes (int32, excluding the
	// header, always a multiple of WordSize).
	BlockSizeOffset = 0

	// BlockNextOffset holds the free-list link (uint32 header offset of the
	// next member, NilRef for end of list). Meaningful only while the block
	// is on the free list; stale otherwise.
	BlockNextOffset = 4

	// BlockFlagsOffset holds the block flags (uint32).
	BlockFlagsOffset = 8

	// Bytes 12..15 of the header are reserved padding, keeping HeaderSize a
	// multiple of WordSize so payloads stay word-aligned.
)

// Block flag bits.
const (
	// BlockFlagFree marks a block as free.
	BlockFlagFree = 0x1
)

// NilRef is the sentinel for "no block". It terminates free-list chains and
// is the result of an allocation that yields nothing (zero-size request or
// region exhaustion).
const NilRef = uint32(0xFFFFFFFF)
