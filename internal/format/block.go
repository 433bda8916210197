package format

// Block header accessors. All functions take the region byte slice and the
// header offset of the block; none of them allocate.

// BlockSize returns the payload size of the block at off.
func BlockSize(b []byte, off int32) int32 {
	return ReadI32(b, int(off)+BlockSizeOffset)
}

// SetBlockSize stores the payload size of the block at off.
func SetBlockSize(b []byte, off, size int32) {
	PutI32(b, int(off)+BlockSizeOffset, size)
}

// BlockNext returns the free-list link of the block at off.
// The value is stale unless the block is currently a free-list member.
func BlockNext(b []byte, off int32) uint32 {
	return ReadU32(b, int(off)+BlockNextOffset)
}

// SetBlockNext stores the free-list link of the block at off.
func SetBlockNext(b []byte, off int32, next uint32) {
	PutU32(b, int(off)+BlockNextOffset, next)
}

// BlockFree reports whether the block at off is marked free.
func BlockFree(b []byte, off int32) bool {
	return ReadU32(b, int(off)+BlockFlagsOffset)&BlockFlagFree != 0
}

// SetBlockFree sets or clears the free flag of the block at off.
func SetBlockFree(b []byte, off int32, free bool) {
	flags := ReadU32(b, int(off)+BlockFlagsOffset)
	if free {
		flags |= BlockFlagFree
	} else {
		flags &^= BlockFlagFree
	}
	PutU32(b, int(off)+BlockFlagsOffset, flags)
}

// WriteBlockHeader initializes the full header of the block at off.
// The reserved pad bytes are cleared so headers compare deterministically.
func WriteBlockHeader(b []byte, off, size int32, next uint32, free bool) {
	PutI32(b, int(off)+BlockSizeOffset, size)
	PutU32(b, int(off)+BlockNextOffset, next)
	var flags uint32
	if free {
		flags = BlockFlagFree
	}
	PutU32(b, int(off)+BlockFlagsOffset, flags)
	PutU32(b, int(off)+BlockFlagsOffset+4, 0)
}

// BlockEnd returns the offset one past the block's payload, i.e. the header
// offset of the block's physical successor in the region.
func BlockEnd(b []byte, off int32) int32 {
	return off + HeaderSize + BlockSize(b, off)
}
