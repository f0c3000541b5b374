// Package state implements the ledger: per-account balances, nonces,
// storage, and code, cached in memory and committed to a TrieDB-backed
// state trie.
package state

import (
	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
	"github.com/ethpoc/ethpoc/trie"
)

// emptyStorageRoot returns the root hash of an empty per-account storage
// trie, against which StorageRoot is compared to decide account liveness.
func emptyStorageRoot() common.Hash {
	return trie.EmptyRoot()
}

// emptyCodeHash is H(empty), the code_hash of an account with no code.
var emptyCodeHash = crypto.Keccak256Hash(nil)

// accountRecord is the persisted wire form of an account:
// [nonce, balance, storage_root, code_hash].
type accountRecord struct {
	Nonce       uint256.Int
	Balance     uint256.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// AccountState is the in-memory representation of one address's state
// while it is touched by the current block. The trie-backed fields
// (Nonce, Balance, StorageRoot, CodeHash) mirror accountRecord; the
// remaining fields are transient bookkeeping that never reaches the trie
// directly.
type AccountState struct {
	Nonce       uint256.Int
	Balance     uint256.Int
	StorageRoot common.Hash
	CodeHash    common.Hash

	codeCache []byte // materialized code, nil until loaded
	haveCode  bool   // whether codeCache reflects CodeHash
	freshCode bool   // code was (re)written this session, not yet persisted

	// storageOverlay stages writes over the per-account storage trie.
	// A zero value for a key means "delete this key on commit". Keys are
	// ordered for deterministic commit iteration.
	storageOverlay map[[32]byte]uint256.Int
	storageOrder   []([32]byte)
}

// newAccountState returns a freshly zeroed account (equivalent to one that
// has never existed on chain).
func newAccountState() *AccountState {
	return &AccountState{
		StorageRoot:    emptyStorageRoot(),
		CodeHash:       emptyCodeHash,
		storageOverlay: make(map[[32]byte]uint256.Int),
	}
}

// decodeAccountState parses an accountRecord found in the state trie.
func decodeAccountState(enc []byte) (*AccountState, error) {
	var rec accountRecord
	if err := rlp.DecodeBytes(enc, &rec); err != nil {
		return nil, err
	}
	return &AccountState{
		Nonce:          rec.Nonce,
		Balance:        rec.Balance,
		StorageRoot:    rec.StorageRoot,
		CodeHash:       rec.CodeHash,
		storageOverlay: make(map[[32]byte]uint256.Int),
	}, nil
}

// encode produces the accountRecord wire form for writing into the state
// trie.
func (a *AccountState) encode() ([]byte, error) {
	rec := accountRecord{
		Nonce:       a.Nonce,
		Balance:     a.Balance,
		StorageRoot: a.StorageRoot,
		CodeHash:    a.CodeHash,
	}
	return rlp.EncodeToBytes(&rec)
}

// IsAlive reports whether the account has any non-default field: a
// nonzero nonce or balance, non-empty storage, or non-empty code.
func (a *AccountState) IsAlive() bool {
	if !a.Nonce.IsZero() || !a.Balance.IsZero() {
		return true
	}
	if a.StorageRoot != emptyStorageRoot() {
		return true
	}
	return a.CodeHash != emptyCodeHash
}

// setStorage stages a write to storage key k. A zero value marks k for
// deletion on commit.
func (a *AccountState) setStorage(k, v uint256.Int) {
	key := k.Bytes32()
	if _, exists := a.storageOverlay[key]; !exists {
		a.storageOrder = append(a.storageOrder, key)
	}
	a.storageOverlay[key] = v
}

// overlayValue returns the staged value for k and whether it was staged.
func (a *AccountState) overlayValue(k uint256.Int) (uint256.Int, bool) {
	v, ok := a.storageOverlay[k.Bytes32()]
	return v, ok
}

// setCode installs code bytes not yet committed to the overlay DB.
func (a *AccountState) setCode(code []byte) {
	a.codeCache = code
	a.haveCode = true
	a.freshCode = true
	if len(code) == 0 {
		a.CodeHash = emptyCodeHash
	} else {
		a.CodeHash = crypto.Keccak256Hash(code)
	}
}

// clone returns a deep copy, used to snapshot an account's state at call
// frame entry so it can be restored verbatim on exceptional termination.
func (a *AccountState) clone() *AccountState {
	cp := &AccountState{
		Nonce:       a.Nonce,
		Balance:     a.Balance,
		StorageRoot: a.StorageRoot,
		CodeHash:    a.CodeHash,
		codeCache:   a.codeCache,
		haveCode:    a.haveCode,
		freshCode:   a.freshCode,
		storageOverlay: make(map[[32]byte]uint256.Int, len(a.storageOverlay)),
		storageOrder:   append([][32]byte{}, a.storageOrder...),
	}
	for k, v := range a.storageOverlay {
		cp.storageOverlay[k] = v
	}
	return cp
}
