package format

import "testing"

func TestWriteBlockHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	off := int32(64)

	WriteBlockHeader(buf, off, 256, NilRef, true)

	if got := BlockSize(buf, off); got != 256 {
		t.Fatalf("size mismatch: %d", got)
	}
	if got := BlockNext(buf, off); got != NilRef {
		t.Fatalf("next mismatch: 0x%x", got)
	}
	if !BlockFree(buf, off) {
		t.Fatalf("expected free block")
	}
	if got := BlockEnd(buf, off); got != off+HeaderSize+256 {
		t.Fatalf("end mismatch: %d", got)
	}
}

func TestSetBlockFreeTogglesOnlyFlag(t *testing.T) {
	buf := make([]byte, 128)
	off := int32(0)
	WriteBlockHeader(buf, off, 64, 0x40, true)

	SetBlockFree(buf, off, false)
	if BlockFree(buf, off) {
		t.Fatalf("expected allocated block")
	}
	if got := BlockNext(buf, off); got != 0x40 {
		t.Fatalf("next clobbered: 0x%x", got)
	}
	if got := BlockSize(buf, off); got != 64 {
		t.Fatalf("size clobbered: %d", got)
	}

	SetBlockFree(buf, off, true)
	if !BlockFree(buf, off) {
		t.Fatalf("expected free block")
	}
}

func TestSetBlockNextPreservesState(t *testing.T) {
	buf := make([]byte, 128)
	off := int32(32)
	WriteBlockHeader(buf, off, 40, NilRef, false)

	SetBlockNext(buf, off, 96)
	if got := BlockNext(buf, off); got != 96 {
		t.Fatalf("next mismatch: %d", got)
	}
	if BlockFree(buf, off) {
		t.Fatalf("free flag clobbered")
	}
}
