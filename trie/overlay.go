package trie

import (
	"errors"
	"sync"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/ethdb"
)

// ErrCorruptState is raised when a trie traversal expects a node to be
// present (because the trie structure references its hash) but the
// overlay/backing store lookup comes back empty.
var ErrCorruptState = errors.New("trie: corrupt state (missing node for referenced hash)")

// ErrRefCountNegative is returned by Kill when a key's reference count
// would go negative, which indicates a double-free bug in the caller.
var ErrRefCountNegative = errors.New("trie: reference count would go negative")

// OverlayDB presents a single logical key/value store (256-bit hash keys,
// byte-slice values) whose writes are staged in memory and either committed
// atomically to the backing store or discarded. It is reference-counted:
// because trie nodes are content-addressed by H(rlp(node)), identical
// subtrees share storage, so the same key may be inserted multiple times
// by unrelated branches of the trie.
type OverlayDB struct {
	mu      sync.Mutex
	backing ethdb.KeyValueStore
	dirty   map[common.Hash][]byte
	refs    map[common.Hash]int64
}

// NewOverlayDB wraps a backing key/value store.
func NewOverlayDB(backing ethdb.KeyValueStore) *OverlayDB {
	return &OverlayDB{
		backing: backing,
		dirty:   make(map[common.Hash][]byte),
		refs:    make(map[common.Hash]int64),
	}
}

// Insert stages k -> v. Duplicate inserts increment the reference count
// rather than overwriting, since an identical key always carries an
// identical value (content addressing).
func (db *OverlayDB) Insert(k common.Hash, v []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.dirty[k]; !ok {
		cp := make([]byte, len(v))
		copy(cp, v)
		db.dirty[k] = cp
	}
	db.refs[k]++
}

// Lookup searches the overlay first, then the backing store. It returns
// nil with no error if the key is absent everywhere.
func (db *OverlayDB) Lookup(k common.Hash) ([]byte, error) {
	db.mu.Lock()
	if v, ok := db.dirty[k]; ok {
		db.mu.Unlock()
		return v, nil
	}
	db.mu.Unlock()

	v, err := db.backing.Get(k.Bytes())
	if err == ethdb.ErrNotFound {
		return nil, nil
	}
	return v, err
}

// Kill decrements the reference count for k. When the count reaches zero
// the staged entry is dropped from the overlay (enforce_refs policy); the
// backing store is never touched by Kill, since once a node is persisted
// it is immortal in this design.
func (db *OverlayDB) Kill(k common.Hash) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.refs[k] <= 0 {
		return ErrRefCountNegative
	}
	db.refs[k]--
	if db.refs[k] == 0 {
		delete(db.dirty, k)
		delete(db.refs, k)
	}
	return nil
}

// Commit flushes all staged writes to the backing store in a single
// atomic batch, then clears the overlay.
func (db *OverlayDB) Commit() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.dirty) == 0 {
		return nil
	}
	batch := db.backing.NewBatch()
	for k, v := range db.dirty {
		if err := batch.Put(k.Bytes(), v); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	db.dirty = make(map[common.Hash][]byte)
	db.refs = make(map[common.Hash]int64)
	return nil
}

// Rollback discards the overlay without touching the backing store.
func (db *OverlayDB) Rollback() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.dirty = make(map[common.Hash][]byte)
	db.refs = make(map[common.Hash]int64)
}

// DirtySize returns the number of staged (uncommitted) entries.
func (db *OverlayDB) DirtySize() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.dirty)
}

// Backing returns the underlying persistent store, for components (like
// account code storage) that address it directly by content hash.
func (db *OverlayDB) Backing() ethdb.KeyValueStore {
	return db.backing
}
