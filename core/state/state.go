package state

import (
	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/ethdb"
	"github.com/ethpoc/ethpoc/metrics"
	"github.com/ethpoc/ethpoc/trie"
)

// State is the ledger: a cache of touched accounts layered over a
// TrieDB-backed state trie, plus the block-chain position it has advanced
// to and the receipts accumulated since the last commit.
type State struct {
	db        ethdb.KeyValueStore
	overlay   *trie.OverlayDB
	stateTrie *trie.TrieDB

	cache     map[common.Address]*AccountState
	snapshots []map[common.Address]*AccountState

	previousBlock *types.Header
	currentBlock  *types.Header

	receipts       []*types.Receipt
	transactionSet map[common.Hash]struct{}

	ourAddress common.Address
}

// New opens (or creates) the backing store at path and constructs a State
// rooted at genesis (the empty trie), crediting nothing until the caller
// seeds a genesis cache and commits it.
func New(path string, coinbase common.Address) (*State, error) {
	db, err := ethdb.OpenLevelDB(path)
	if err != nil {
		return nil, err
	}
	overlay := trie.NewOverlayDB(db)
	st, err := trie.Init(overlay)
	if err != nil {
		return nil, err
	}
	s := &State{
		db:             db,
		overlay:        overlay,
		stateTrie:      st,
		cache:          make(map[common.Address]*AccountState),
		transactionSet: make(map[common.Hash]struct{}),
		ourAddress:     coinbase,
		previousBlock:  &types.Header{},
	}
	s.resetCurrent()
	return s, nil
}

// NewInMemory constructs a State over an in-memory backing store, for tests
// and for mining a fresh chain.
func NewInMemory(coinbase common.Address) (*State, error) {
	db := ethdb.NewMemoryDB()
	overlay := trie.NewOverlayDB(db)
	st, err := trie.Init(overlay)
	if err != nil {
		return nil, err
	}
	s := &State{
		db:             db,
		overlay:        overlay,
		stateTrie:      st,
		cache:          make(map[common.Address]*AccountState),
		transactionSet: make(map[common.Hash]struct{}),
		ourAddress:     coinbase,
		previousBlock:  &types.Header{},
	}
	s.resetCurrent()
	return s, nil
}

// Root returns the state trie's current root hash.
func (s *State) Root() common.Hash { return s.stateTrie.Root() }

// CurrentBlock and PreviousBlock expose the chain position the State has
// advanced to.
func (s *State) CurrentBlock() *types.Header  { return s.currentBlock }
func (s *State) PreviousBlock() *types.Header { return s.previousBlock }

// ensureCached loads addr into the cache if not already present. If the
// trie has no record for addr and forceCreate is false, the cache is left
// unchanged and ok is false.
func (s *State) ensureCached(addr common.Address, needCode, forceCreate bool) (acct *AccountState, ok bool, err error) {
	if acct, cached := s.cache[addr]; cached {
		metrics.StateCacheHits.Inc()
		if needCode && !acct.haveCode {
			if err := s.loadCode(acct); err != nil {
				return nil, false, err
			}
		}
		return acct, true, nil
	}
	metrics.StateCacheMisses.Inc()
	metrics.StateAccountReads.Inc()

	enc, err := s.stateTrie.At(addr.Bytes())
	if err != nil {
		return nil, false, err
	}
	if len(enc) == 0 {
		if !forceCreate {
			return nil, false, nil
		}
		acct = newAccountState()
		s.cache[addr] = acct
		return acct, true, nil
	}

	acct, err = decodeAccountState(enc)
	if err != nil {
		return nil, false, err
	}
	s.cache[addr] = acct
	if needCode {
		if err := s.loadCode(acct); err != nil {
			return nil, false, err
		}
	}
	return acct, true, nil
}

func (s *State) loadCode(acct *AccountState) error {
	if acct.CodeHash == emptyCodeHash {
		acct.codeCache = nil
		acct.haveCode = true
		return nil
	}
	code, err := s.overlay.Lookup(acct.CodeHash)
	if err != nil {
		return err
	}
	acct.codeCache = code
	acct.haveCode = true
	return nil
}

// GetNonce returns addr's nonce (zero if the account does not exist).
func (s *State) GetNonce(addr common.Address) (uint256.Int, error) {
	acct, ok, err := s.ensureCached(addr, false, false)
	if err != nil || !ok {
		return uint256.Int{}, err
	}
	return acct.Nonce, nil
}

// GetBalance returns addr's balance (zero if the account does not exist).
func (s *State) GetBalance(addr common.Address) (uint256.Int, error) {
	acct, ok, err := s.ensureCached(addr, false, false)
	if err != nil || !ok {
		return uint256.Int{}, err
	}
	return acct.Balance, nil
}

// AddBalance credits amount to addr, creating the account if needed.
func (s *State) AddBalance(addr common.Address, amount *uint256.Int) error {
	acct, _, err := s.ensureCached(addr, false, true)
	if err != nil {
		return err
	}
	acct.Balance.Add(&acct.Balance, amount)
	metrics.StateAccountWrites.Inc()
	return nil
}

// SubBalance debits amount from addr. It fails with ErrInsufficientBalance
// if the cached balance is strictly less than amount; the account is left
// unchanged in that case (no partial debit).
func (s *State) SubBalance(addr common.Address, amount *uint256.Int) error {
	acct, _, err := s.ensureCached(addr, false, true)
	if err != nil {
		return err
	}
	if acct.Balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	acct.Balance.Sub(&acct.Balance, amount)
	return nil
}

// NoteSending increments addr's nonce, recording that it originated a
// transaction.
func (s *State) NoteSending(addr common.Address) error {
	acct, _, err := s.ensureCached(addr, false, true)
	if err != nil {
		return err
	}
	one := uint256.NewInt(1)
	acct.Nonce.Add(&acct.Nonce, one)
	return nil
}

// GetStorageAt reads storage key k of addr: the overlay if staged,
// otherwise the account's on-disk storage trie.
func (s *State) GetStorageAt(addr common.Address, k uint256.Int) (uint256.Int, error) {
	acct, ok, err := s.ensureCached(addr, false, false)
	if err != nil || !ok {
		return uint256.Int{}, err
	}
	metrics.StateStorageReads.Inc()
	if v, staged := acct.overlayValue(k); staged {
		return v, nil
	}
	if acct.StorageRoot == (common.Hash{}) || acct.StorageRoot == emptyStorageRoot() {
		return uint256.Int{}, nil
	}
	storageTrie, err := trie.SetRootTrieDB(s.overlay, acct.StorageRoot)
	if err != nil {
		return uint256.Int{}, err
	}
	key := k.Bytes32()
	enc, err := storageTrie.At(key[:])
	if err != nil {
		return uint256.Int{}, err
	}
	var v uint256.Int
	if len(enc) > 0 {
		v.SetBytes(enc)
	}
	acct.setStorage(k, v)
	return v, nil
}

// SetStorageAt stages a write to storage key k of addr. A zero value
// deletes the key from the underlying trie on commit.
func (s *State) SetStorageAt(addr common.Address, k, v uint256.Int) error {
	acct, _, err := s.ensureCached(addr, false, true)
	if err != nil {
		return err
	}
	acct.setStorage(k, v)
	metrics.StateStorageWrites.Inc()
	return nil
}

// GetCode returns addr's code bytes (nil for an EOA or nonexistent account).
func (s *State) GetCode(addr common.Address) ([]byte, error) {
	metrics.StateCodeLookups.Inc()
	acct, ok, err := s.ensureCached(addr, true, false)
	if err != nil || !ok {
		return nil, err
	}
	return acct.codeCache, nil
}

// GetCodeHash returns addr's code hash.
func (s *State) GetCodeHash(addr common.Address) (common.Hash, error) {
	acct, ok, err := s.ensureCached(addr, false, false)
	if err != nil || !ok {
		return emptyCodeHash, err
	}
	return acct.CodeHash, nil
}

// SetCode installs new code for addr.
func (s *State) SetCode(addr common.Address, code []byte) error {
	acct, _, err := s.ensureCached(addr, false, true)
	if err != nil {
		return err
	}
	acct.setCode(code)
	metrics.StateCodeWrites.Inc()
	return nil
}

// Exists reports whether addr has a live account (cached or trie-resident).
func (s *State) Exists(addr common.Address) (bool, error) {
	acct, ok, err := s.ensureCached(addr, false, false)
	if err != nil || !ok {
		return false, err
	}
	return acct.IsAlive(), nil
}

// OverlayDB exposes the shared overlay store, for callers (the VM's code
// cache, the trie-backed receipts manifest) that need direct access.
func (s *State) OverlayDB() *trie.OverlayDB { return s.overlay }

// SetTrieRoot retargets the state trie to root, discarding any structural
// mutations made since: a mining session rewinding commit_to_mine's reward
// application needs to undo not just the account cache but the trie nodes
// that a prior uncommitted re-run's commit() already wrote.
func (s *State) SetTrieRoot(root common.Hash) error {
	return s.stateTrie.SetRoot(root)
}

// Snapshot records the current cache contents and returns an id that can
// later be passed to RevertToSnapshot. Snapshots nest: taking snapshot N
// and reverting to it also discards any snapshot taken after N.
func (s *State) Snapshot() int {
	clone := make(map[common.Address]*AccountState, len(s.cache))
	for addr, acct := range s.cache {
		clone[addr] = acct.clone()
	}
	s.snapshots = append(s.snapshots, clone)
	metrics.StateSnapshots.Inc()
	return len(s.snapshots) - 1
}

// RevertToSnapshot restores the cache to exactly the contents recorded by
// Snapshot(id), discarding every mutation (including newly touched
// accounts) made since. This is the mechanism by which an exceptional VM
// termination (OutOfGas, BadInstruction, stack underflow) undoes a call
// frame's effects without touching the trie.
func (s *State) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.snapshots) {
		return
	}
	s.cache = s.snapshots[id]
	s.snapshots = s.snapshots[:id]
	metrics.StateReverts.Inc()
}
