package format

// Alignment utilities for the heap region. Block payloads and headers must
// stay word-aligned so that every payload the allocator hands out is usable
// for any scalar type.

// AlignWord returns n aligned up to the next multiple of WordSize.
//
// Example:
//
//	AlignWord(1)  = 8
//	AlignWord(8)  = 8
//	AlignWord(9)  = 16
func AlignWord(n int) int {
	return (n + WordAlignmentMask) & ^WordAlignmentMask
}

// AlignWordI32 returns n aligned up to the next multiple of WordSize.
// int32 version for use in allocator code to avoid G115 warnings.
func AlignWordI32(n int32) int32 {
	return (n + WordAlignmentMask) & ^int32(WordAlignmentMask)
}
