package state

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/metrics"
	"github.com/ethpoc/ethpoc/trie"
)

// Commit flushes every cached account into the state trie: its storage
// overlay is applied to its per-account storage trie, fresh code is
// persisted into the overlay DB keyed by its hash, and the account record
// is inserted (or removed, if the account is no longer alive) into the
// state trie keyed by address. The cache is cleared on success.
//
// Any failure rolls back the overlay DB and leaves the state trie root
// unchanged, per the "failure leaves the trie untouched" commit policy.
func (s *State) Commit() error {
	start := time.Now()
	defer func() { metrics.StateCommitDuration.Observe(time.Since(start).Seconds()) }()
	if err := s.commit(); err != nil {
		s.overlay.Rollback()
		return err
	}
	s.cache = make(map[common.Address]*AccountState)
	metrics.StateCommits.Inc()
	return nil
}

func (s *State) commit() error {
	if err := s.flushCache(); err != nil {
		return err
	}
	if _, err := s.stateTrie.Commit(); err != nil {
		return err
	}
	return nil
}

// flushCache writes every cached account's pending storage and record
// into the trie (and fresh code into the overlay), without clearing the
// cache or calling TrieDB.Commit. Callers that want a durable commit use
// Commit/commit; IntermediateRoot uses this alone to compute the trie
// root reflected by a receipt mid-block, while leaving execution free to
// keep reading and writing the same cached accounts for later
// transactions in the block.
func (s *State) flushCache() error {
	for addr, acct := range s.cache {
		if err := s.commitStorage(acct); err != nil {
			return err
		}
		if acct.freshCode {
			s.overlay.Insert(acct.CodeHash, acct.codeCache)
			acct.freshCode = false
		}
		if !acct.IsAlive() {
			if err := s.stateTrie.Remove(addr.Bytes()); err != nil {
				return err
			}
			continue
		}
		enc, err := acct.encode()
		if err != nil {
			return err
		}
		if err := s.stateTrie.Insert(addr.Bytes(), enc); err != nil {
			return err
		}
	}
	return nil
}

// IntermediateRoot flushes the cache into the state trie and hashes it
// (without a durable overlay_db.commit, so nothing is yet persisted to
// disk) and returns the resulting root: the value a receipt's
// post_state_root records immediately after one transaction, per §4.6
// step 8 and invariant 4. TrieDB.Root() only reflects the last hashed
// root, so this must call TrieDB.Commit(), not merely flush the pending
// Insert/Remove calls, or consecutive transactions in the same block
// would all observe the same stale root.
func (s *State) IntermediateRoot() (common.Hash, error) {
	if err := s.flushCache(); err != nil {
		return common.Hash{}, err
	}
	return s.stateTrie.Commit()
}

// commitStorage recomputes acct's storage trie by applying its staged
// overlay writes, updating acct.StorageRoot in place.
func (s *State) commitStorage(acct *AccountState) error {
	if len(acct.storageOrder) == 0 {
		return nil
	}
	root := acct.StorageRoot
	if root == (common.Hash{}) {
		root = emptyStorageRoot()
	}
	storageTrie, err := trie.SetRootTrieDB(s.overlay, root)
	if err != nil {
		return err
	}
	for _, key := range acct.storageOrder {
		v := acct.storageOverlay[key]
		if v.IsZero() {
			if err := storageTrie.Remove(key[:]); err != nil {
				return err
			}
			continue
		}
		b := v.Bytes32()
		if err := storageTrie.Insert(key[:], b[:]); err != nil {
			return err
		}
	}
	newRoot, err := storageTrie.Commit()
	if err != nil {
		return err
	}
	acct.StorageRoot = newRoot
	acct.storageOverlay = make(map[[32]byte]uint256.Int)
	acct.storageOrder = nil
	return nil
}
