package common

import "testing"

func TestHash_HexRoundTrip(t *testing.T) {
	h := HexToHash("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	if h.Hex() != "0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20" {
		t.Errorf("Hex() = %s", h.Hex())
	}
	if h.IsZero() {
		t.Error("expected non-zero hash")
	}
}

func TestHash_BytesToHashPadsAndTruncates(t *testing.T) {
	short := BytesToHash([]byte{0x01, 0x02})
	if short[HashLength-1] != 0x02 || short[HashLength-2] != 0x01 {
		t.Errorf("short input not right-aligned: %x", short)
	}
	for i := 0; i < HashLength-2; i++ {
		if short[i] != 0 {
			t.Fatalf("expected leading zero padding, got %x", short)
		}
	}

	long := make([]byte, HashLength+5)
	for i := range long {
		long[i] = byte(i)
	}
	truncated := BytesToHash(long)
	if truncated.Bytes()[0] != long[5] {
		t.Errorf("expected truncation from the left, got %x", truncated)
	}
}

func TestAddress_HexRoundTrip(t *testing.T) {
	a := HexToAddress("0x000102030405060708090a0b0c0d0e0f10111213")
	if a.IsZero() {
		t.Error("expected non-zero address")
	}
	if a.Hex() != "0x000102030405060708090a0b0c0d0e0f10111213" {
		t.Errorf("Hex() = %s", a.Hex())
	}
}

func TestAddress_ZeroValue(t *testing.T) {
	var a Address
	if !a.IsZero() {
		t.Error("zero-value Address should be IsZero")
	}
}

func TestBlockNonce_EncodeDecode(t *testing.T) {
	for _, n := range []uint64{0, 1, 42, 1 << 40, ^uint64(0)} {
		bn := EncodeNonce(n)
		if got := bn.Uint64(); got != n {
			t.Errorf("EncodeNonce(%d).Uint64() = %d", n, got)
		}
	}
}

func TestFromHex(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"0x", []byte{}},
		{"", []byte{}},
		{"0xff", []byte{0xff}},
		{"ff", []byte{0xff}},
		{"0xf", []byte{0x0f}},
		{"0xXYZ", nil},
	}
	for _, c := range cases {
		got := FromHex(c.in)
		if len(got) != len(c.want) {
			t.Errorf("FromHex(%q) = %x, want %x", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("FromHex(%q) = %x, want %x", c.in, got, c.want)
				break
			}
		}
	}
}

func TestHash_SetBytes(t *testing.T) {
	var h Hash
	h.SetBytes([]byte{0xaa, 0xbb})
	if h[HashLength-1] != 0xbb || h[HashLength-2] != 0xaa {
		t.Errorf("SetBytes did not right-align: %x", h)
	}
}
