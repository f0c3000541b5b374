package state

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/consensus"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/ethdb"
	"github.com/ethpoc/ethpoc/metrics"
	"github.com/ethpoc/ethpoc/params"
	"github.com/ethpoc/ethpoc/rlp"
	"github.com/ethpoc/ethpoc/trie"
)

// TxExecutor runs one decoded transaction against the State that owns it
// and returns its receipt. core.Executive is the concrete implementation;
// State depends only on this narrow interface to avoid importing the
// package that in turn imports State.
type TxExecutor interface {
	ExecuteTx(tx *types.Transaction) (*types.Receipt, error)
}

// Sync advances the State to blockHash along chain, per three cases: the
// block is already the current tip (advance one step), it is the already-
// synced previous tip (no-op), or it is genuinely new (walk ancestors back
// to a known state root, then replay forward).
func (s *State) Sync(chain BlockChain, blockHash common.Hash, exec TxExecutor) (bool, error) {
	if s.currentBlock != nil && s.currentBlock.Hash() == blockHash {
		s.previousBlock = s.currentBlock
		s.resetCurrent()
		return true, nil
	}
	if s.previousBlock != nil && s.previousBlock.Hash() == blockHash {
		return false, nil
	}

	var chainHashes []common.Hash
	walk := blockHash
	for {
		header, ok := chain.HeaderByHash(walk)
		if !ok {
			return false, ErrUnknownAncestor
		}
		if s.knownRoot(header.Root) {
			break
		}
		chainHashes = append(chainHashes, walk)
		walk = header.ParentHash
	}

	for i := len(chainHashes) - 1; i >= 0; i-- {
		block, ok := chain.BlockByHash(chainHashes[i])
		if !ok {
			return false, ErrUnknownAncestor
		}
		enc, err := block.EncodeRLP()
		if err != nil {
			return false, err
		}
		var gp *types.Header
		if parent, ok := chain.HeaderByHash(block.Header().ParentHash); ok {
			if ph, ok := chain.HeaderByHash(parent.ParentHash); ok {
				gp = ph
			}
		}
		if _, err := s.TrustedPlayback(enc, gp, exec); err != nil {
			return false, err
		}
	}
	return true, nil
}

// knownRoot reports whether root is already materialized in the overlay DB
// (a zero root, the empty trie, always counts as known).
func (s *State) knownRoot(root common.Hash) bool {
	if root == (common.Hash{}) || root == trie.EmptyRoot() {
		return true
	}
	enc, err := s.overlay.Lookup(root)
	return err == nil && len(enc) > 0
}

// resetCurrent builds a fresh current_block header atop previous_block, for
// the next round of mining or replay. previous_block starts out as a bare
// zero header (no genesis parent to inherit from), so a nil difficulty or
// min_gas_price falls back to the protocol floor rather than propagating nil.
func (s *State) resetCurrent() {
	num := new(big.Int)
	if s.previousBlock.Number != nil {
		num.Add(s.previousBlock.Number, big.NewInt(1))
	}
	difficulty := new(big.Int).Set(consensus.MinimumDifficulty)
	if s.previousBlock.Difficulty != nil {
		difficulty.Set(s.previousBlock.Difficulty)
	}
	minGasPrice := big.NewInt(params.DefaultMinGasPrice)
	if s.previousBlock.MinGasPrice != nil {
		minGasPrice.Set(s.previousBlock.MinGasPrice)
	}
	s.currentBlock = &types.Header{
		ParentHash:  s.previousBlock.Hash(),
		Number:      num,
		Difficulty:  difficulty,
		MinGasPrice: minGasPrice,
		Coinbase:    s.ourAddress,
	}
	s.ResetReceipts()
}

// TrustedPlayback runs PlaybackRaw with full_commit=true: the caller already
// trusts blockRLP's provenance (it came from a chain sync, not raw PoW
// validation), so grandParent is used for uncle difficulty checks only.
func (s *State) TrustedPlayback(blockRLP []byte, grandParent *types.Header, exec TxExecutor) (*big.Int, error) {
	return s.PlaybackRaw(blockRLP, grandParent, true, exec)
}

// PlaybackRaw validates and applies one block against the current state,
// per §4.4: parent linkage, per-transaction execution and receipt
// cross-checks, the transactions manifest root, uncle validity, rewards,
// and the final state root check. fullCommit controls whether the overlay
// DB is persisted or rolled back after a successful state-root match; it
// returns the block's difficulty contribution (its own difficulty plus its
// uncles').
func (s *State) PlaybackRaw(blockRLP []byte, grandParent *types.Header, fullCommit bool, exec TxExecutor) (*big.Int, error) {
	block, err := types.DecodeBlockRLP(blockRLP)
	if err != nil {
		return nil, err
	}
	header := block.Header()

	if header.ParentHash != s.previousBlock.Hash() {
		return nil, ErrInvalidParentHash
	}

	s.currentBlock = header
	s.ResetReceipts()

	for _, r := range block.Receipts() {
		receipt, err := exec.ExecuteTx(r.Tx)
		if err != nil {
			return nil, err
		}
		if receipt.PostStateRoot != r.PostStateRoot {
			return nil, ErrInvalidTransactionStateRoot
		}
		if receipt.CumulativeGasUsed != r.CumulativeGasUsed {
			return nil, ErrInvalidTransactionGasUsed
		}
	}

	manifestRoot, err := ManifestRoot(block.Receipts())
	if err != nil {
		return nil, err
	}
	if manifestRoot != header.TxHash {
		return nil, ErrInvalidTransactionsRoot
	}

	if err := s.verifyUncles(header, block.Uncles(), grandParent); err != nil {
		return nil, err
	}

	diffIncrement := new(big.Int).Set(header.Difficulty)
	nUncles := big.NewInt(int64(len(block.Uncles())))
	inclusionBonus := new(big.Int).Mul(params.UncleInclusionBonus(), nUncles)
	coinbaseReward := new(big.Int).Add(params.BlockReward, inclusionBonus)
	if err := s.addBalanceBig(header.Coinbase, coinbaseReward); err != nil {
		return nil, err
	}
	for _, u := range block.Uncles() {
		if err := s.addBalanceBig(u.Coinbase, params.UncleReward()); err != nil {
			return nil, err
		}
		diffIncrement.Add(diffIncrement, u.Difficulty)
	}

	if err := s.commit(); err != nil {
		s.overlay.Rollback()
		return nil, err
	}
	if s.stateTrie.Root() != header.Root {
		s.overlay.Rollback()
		return nil, ErrInvalidStateRoot
	}
	s.cache = make(map[common.Address]*AccountState)

	if fullCommit {
		if err := s.overlay.Commit(); err != nil {
			return nil, err
		}
	} else {
		s.overlay.Rollback()
	}

	s.previousBlock = header
	metrics.SyncBlocksPlayed.Inc()
	return diffIncrement, nil
}

// verifyUncles checks §4.4 step 4: shared grandparent, pairwise-distinct
// nonces among the block and its uncles, and (when a grandparent is known)
// consensus.VerifyParent against it.
func (s *State) verifyUncles(header *types.Header, uncles []*types.Header, grandParent *types.Header) error {
	seen := map[common.BlockNonce]bool{header.Nonce: true}
	for _, u := range uncles {
		if s.previousBlock.ParentHash != u.ParentHash {
			return ErrUncleNotAnUncle
		}
		if seen[u.Nonce] {
			return ErrDuplicateUncleNonce
		}
		seen[u.Nonce] = true
		if grandParent != nil {
			if err := consensus.VerifyParent(u, grandParent); err != nil {
				return err
			}
		}
	}
	return nil
}

// ManifestRoot builds the transient transactions-manifest trie (keyed by
// index in RLP) from receipts and returns its root, per §4.4 step 3.
func ManifestRoot(receipts []*types.Receipt) (common.Hash, error) {
	db := trie.NewOverlayDB(ethdb.NewMemoryDB())
	manifest, err := trie.Init(db)
	if err != nil {
		return common.Hash{}, err
	}
	for i, r := range receipts {
		enc, err := r.EncodeRLP()
		if err != nil {
			return common.Hash{}, err
		}
		if err := manifest.Insert(rlp.EncodeUint64(uint64(i)), enc); err != nil {
			return common.Hash{}, err
		}
	}
	return manifest.Commit()
}

func (s *State) addBalanceBig(addr common.Address, amount *big.Int) error {
	u, _ := uint256.FromBig(amount)
	return s.AddBalance(addr, u)
}
