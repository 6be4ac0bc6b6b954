package dns

import (
	"strings"
	"testing"
)

func TestBufferPrimitivesRoundTrip(t *testing.T) {
	buf := NewBuffer()
	if err := buf.WriteU8(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := buf.WriteU16(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := buf.WriteU32(0xDEADBEEF); err != nil {
		t.Fatal(err)
	}

	if err := buf.Seek(0); err != nil {
		t.Fatal(err)
	}
	if v, err := buf.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("ReadU8 = %v, %v", v, err)
	}
	if v, err := buf.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = %v, %v", v, err)
	}
	if v, err := buf.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = %v, %v", v, err)
	}
}

func TestGetRangeExactFitSucceeds(t *testing.T) {
	buf := NewBuffer()
	if _, err := buf.GetRange(bufferSize-4, 4); err != nil {
		t.Fatalf("exact-fitting GetRange at buffer tail should succeed, got %v", err)
	}
	if _, err := buf.GetRange(bufferSize-3, 4); err == nil {
		t.Fatal("expected GetRange past the buffer end to fail")
	}
}

func TestReadRangeExactFitSucceeds(t *testing.T) {
	buf := NewBuffer()
	if err := buf.Seek(bufferSize - 4); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.ReadRange(4); err != nil {
		t.Fatalf("exact-fitting ReadRange at buffer tail should succeed, got %v", err)
	}
}

func TestWriteQNameReadQNameRoundTrip(t *testing.T) {
	buf := NewBuffer()
	name := "WWW.Example.COM"
	if err := buf.WriteQName(name); err != nil {
		t.Fatal(err)
	}
	if err := buf.Seek(0); err != nil {
		t.Fatal(err)
	}
	got, err := buf.ReadQName()
	if err != nil {
		t.Fatal(err)
	}
	if got != strings.ToLower(name) {
		t.Fatalf("got %q, want %q", got, strings.ToLower(name))
	}
}

func TestWriteQNameLabelTooLong(t *testing.T) {
	buf := NewBuffer()
	label := strings.Repeat("a", 64)
	if err := buf.WriteQName(label); err != ErrSingleLabelLimit {
		t.Fatalf("got %v, want ErrSingleLabelLimit", err)
	}
}

func TestReadQNameFollowsCompressionPointer(t *testing.T) {
	buf := NewBuffer()
	// Place "example.com" at offset 0, then a name at a later offset that
	// points back to it.
	if err := buf.WriteQName("example.com"); err != nil {
		t.Fatal(err)
	}
	ptrPos := buf.Pos()
	if err := buf.WriteU8(0xC0); err != nil {
		t.Fatal(err)
	}
	if err := buf.WriteU8(0x00); err != nil {
		t.Fatal(err)
	}
	afterPtr := buf.Pos()

	if err := buf.Seek(ptrPos); err != nil {
		t.Fatal(err)
	}
	name, err := buf.ReadQName()
	if err != nil {
		t.Fatal(err)
	}
	if name != "example.com" {
		t.Fatalf("got %q, want example.com", name)
	}
	if buf.Pos() != afterPtr {
		t.Fatalf("cursor after first-jump pointer = %d, want %d", buf.Pos(), afterPtr)
	}
}

func TestReadQNameJumpCycleFailsPastLimit(t *testing.T) {
	buf := NewBuffer()
	// Build a chain of 7 pointers, each one pointing to the next, none
	// terminating in a zero label — exceeds the 5-jump cap.
	offsets := make([]int, 7)
	for i := range offsets {
		offsets[i] = i * 2
	}
	for i, off := range offsets {
		if err := buf.Seek(off); err != nil {
			t.Fatal(err)
		}
		var target int
		if i == len(offsets)-1 {
			target = off // point at itself, forcing the cap to trip
		} else {
			target = offsets[i+1]
		}
		if err := buf.WriteU8(0xC0 | byte(target>>8)); err != nil {
			t.Fatal(err)
		}
		if err := buf.WriteU8(byte(target)); err != nil {
			t.Fatal(err)
		}
	}

	if err := buf.Seek(0); err != nil {
		t.Fatal(err)
	}
	_, err := buf.ReadQName()
	if _, ok := err.(*JumpLimitError); !ok {
		t.Fatalf("got %v, want *JumpLimitError", err)
	}
}
