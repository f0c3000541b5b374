package vm

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestMemory_ResizeIsZeroFilledAndNeverShrinks(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	if m.Len() != 64 {
		t.Fatalf("Len() = %d, want 64", m.Len())
	}
	if got := m.Get(0, 64); !allZero(got) {
		t.Fatal("freshly resized memory should be zero-filled")
	}

	m.Resize(32) // smaller than current size: must not shrink
	if m.Len() != 64 {
		t.Fatalf("Len() after smaller Resize = %d, want 64 (memory never shrinks)", m.Len())
	}
}

func TestMemory_SetAndGet(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	m.Set(4, 3, []byte{1, 2, 3})

	got := m.Get(4, 3)
	if string(got) != "\x01\x02\x03" {
		t.Fatalf("Get(4,3) = %x, want 010203", got)
	}
	// Get must return a copy, not an alias into the backing store.
	got[0] = 0xff
	if m.Get(4, 3)[0] == 0xff {
		t.Fatal("Get should return a copy")
	}
}

func TestMemory_Set32(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	m.Set32(0, uint256.NewInt(0xdeadbeef))

	v := new(uint256.Int).SetBytes(m.Get(0, 32))
	if v.Uint64() != 0xdeadbeef {
		t.Fatalf("Set32 round trip = %s, want 0xdeadbeef", v)
	}
}

func TestMemory_GetZeroSize(t *testing.T) {
	m := NewMemory()
	if got := m.Get(0, 0); got != nil {
		t.Fatalf("Get(0,0) = %v, want nil", got)
	}
}

func TestMemory_Words(t *testing.T) {
	m := NewMemory()
	m.Resize(96)
	if m.Words() != 3 {
		t.Fatalf("Words() = %d, want 3", m.Words())
	}
}

func TestWordCount_RoundsUp(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 32: 1, 33: 2, 64: 2, 65: 3}
	for size, want := range cases {
		if got := WordCount(size); got != want {
			t.Errorf("WordCount(%d) = %d, want %d", size, got, want)
		}
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
