package types

import (
	"math/big"
	"testing"

	"github.com/ethpoc/ethpoc/common"
)

func newTestHeader() *Header {
	return &Header{
		ParentHash:  common.HexToHash("0x01"),
		Coinbase:    common.HexToAddress("0x02"),
		Difficulty:  big.NewInt(131072),
		Time:        1000,
		Number:      big.NewInt(1),
		MinGasPrice: big.NewInt(1),
		GasLimit:    1000000,
		Nonce:       common.EncodeNonce(42),
	}
}

func TestHeader_HashIsDeterministicAndCached(t *testing.T) {
	h := newTestHeader()
	first := h.Hash()
	second := h.Hash()
	if first != second {
		t.Fatal("Hash() should be stable across calls")
	}

	other := newTestHeader()
	if other.Hash() != first {
		t.Fatal("two headers with identical fields should hash identically")
	}
}

func TestHeader_HashChangesWithField(t *testing.T) {
	h1 := newTestHeader()
	h2 := newTestHeader()
	h2.Time = 1001
	if h1.Hash() == h2.Hash() {
		t.Fatal("headers differing in Time should hash differently")
	}
}

func TestHeader_HashWithoutNonceIgnoresNonce(t *testing.T) {
	h1 := newTestHeader()
	h2 := newTestHeader()
	h2.Nonce = common.EncodeNonce(999)
	if h1.HashWithoutNonce() != h2.HashWithoutNonce() {
		t.Fatal("HashWithoutNonce should be identical regardless of nonce")
	}
	if h1.Hash() == h1.HashWithoutNonce() {
		t.Fatal("Hash and HashWithoutNonce should differ for a header with a nonzero nonce")
	}
}

func TestHeader_CopyIsIndependent(t *testing.T) {
	h := newTestHeader()
	cp := h.Copy()
	cp.Difficulty.Add(cp.Difficulty, big.NewInt(1))
	cp.Number.Add(cp.Number, big.NewInt(1))
	cp.Extra = append(cp.Extra, 0xff)

	if h.Difficulty.Cmp(big.NewInt(131072)) != 0 {
		t.Error("mutating copy's Difficulty affected the original")
	}
	if h.Number.Cmp(big.NewInt(1)) != 0 {
		t.Error("mutating copy's Number affected the original")
	}
	if len(h.Extra) != 0 {
		t.Error("mutating copy's Extra affected the original")
	}
}

func TestHeader_CopyResetsHashCache(t *testing.T) {
	h := newTestHeader()
	h.Hash() // populate cache
	cp := h.Copy()
	cp.Time = 2000
	if cp.Hash() == h.Hash() {
		t.Fatal("copy's independent mutation should produce a different hash")
	}
}
