// Package types defines the wire and in-memory representations of blocks,
// headers, transactions, receipts, and accounts.
package types

import (
	"math/big"
	"sync/atomic"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
)

// Header is BlockInfo: the 13 consensus fields of a block header, in their
// canonical RLP order (parent_hash, sha3_uncles, coinbase_address,
// state_root, transactions_root, difficulty, timestamp, number,
// min_gas_price, gas_limit, gas_used, extra_data, nonce). Its hash is
// H(rlp(header)) and is cached after the first computation.
type Header struct {
	ParentHash   common.Hash
	UncleHash    common.Hash // sha3_uncles
	Coinbase     common.Address
	Root         common.Hash // state_root
	TxHash       common.Hash // transactions_root
	Difficulty   *big.Int
	Time         uint64 // timestamp
	Number       *big.Int
	MinGasPrice  *big.Int
	GasLimit     uint64
	GasUsed      uint64
	Extra        []byte
	Nonce        common.BlockNonce

	hash atomic.Pointer[common.Hash]
}

// Hash returns the Keccak-256 hash of the RLP-encoded header.
func (h *Header) Hash() common.Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err) // a well-formed Header always encodes
	}
	hash := crypto.Keccak256Hash(enc)
	h.hash.Store(&hash)
	return hash
}

// HashWithoutNonce returns H(rlp(header)) with the nonce field zeroed: the
// value a proof-of-work search targets, since the nonce is exactly what
// that search is solving for.
func (h *Header) HashWithoutNonce() common.Hash {
	cp := h.Copy()
	cp.Nonce = common.BlockNonce{}
	enc, err := rlp.EncodeToBytes(cp)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// Copy returns a deep-enough copy for safe mutation (the cache field is
// reset, not shared).
func (h *Header) Copy() *Header {
	cp := *h
	cp.hash = atomic.Pointer[common.Hash]{}
	if h.Difficulty != nil {
		cp.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	if h.Number != nil {
		cp.Number = new(big.Int).Set(h.Number)
	}
	if h.MinGasPrice != nil {
		cp.MinGasPrice = new(big.Int).Set(h.MinGasPrice)
	}
	cp.Extra = append([]byte{}, h.Extra...)
	return &cp
}
