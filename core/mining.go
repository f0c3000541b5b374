package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/consensus"
	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/metrics"
	"github.com/ethpoc/ethpoc/params"
	"github.com/ethpoc/ethpoc/rlp"
)

// MineInfo reports the outcome of a Mine call, per §4.5.
type MineInfo struct {
	Completed bool
	Elapsed   time.Duration
	Block     *types.Block
}

// MiningSession drives a State forward by mining: draining the pending
// transaction queue, assembling a block around the result, and delegating
// the nonce search to a consensus.Sealer.
type MiningSession struct {
	st     *state.State
	chain  state.BlockChain
	sealer consensus.Sealer
	exec   *Executive

	rewardSnapshot     int
	rewardSnapshotRoot common.Hash
	haveSnapshot       bool
}

func NewMiningSession(st *state.State, chain state.BlockChain, sealer consensus.Sealer) *MiningSession {
	return &MiningSession{st: st, chain: chain, sealer: sealer, exec: NewExecutive(st)}
}

// SyncQueue drains queue into the state's accumulated receipts, per §4.5's
// tx-queue sync. Call this before CommitToMine.
func (m *MiningSession) SyncQueue(queue *TxQueue) []*types.Receipt {
	return queue.Sync(m.exec)
}

// CommitToMine implements §4.5 commit_to_mine: rewind any previously
// applied block reward, gather uncle candidates, build the transactions
// manifest, apply rewards, and commit — leaving current_block fully
// populated except for its proof-of-work nonce.
func (m *MiningSession) CommitToMine() error {
	m.uncommitToMine()

	current := m.st.CurrentBlock()
	previous := m.st.PreviousBlock()

	uncles := m.chain.Siblings(previous.ParentHash, previous.Hash())
	if len(uncles) > maxUncles {
		uncles = uncles[:maxUncles]
	}

	manifestRoot, err := buildManifestRootFromReceipts(m.st.Receipts())
	if err != nil {
		return err
	}
	current.TxHash = manifestRoot
	current.UncleHash = hashUncleList(uncles)

	m.rewardSnapshot = m.st.Snapshot()
	m.rewardSnapshotRoot = m.st.Root()
	m.haveSnapshot = true

	bonus, _ := uint256.FromBig(params.UncleInclusionBonus())
	bonus.Mul(bonus, uint256.NewInt(uint64(len(uncles))))
	reward, _ := uint256.FromBig(params.BlockReward)
	coinbaseReward := new(uint256.Int).Add(reward, bonus)
	if err := m.st.AddBalance(current.Coinbase, coinbaseReward); err != nil {
		m.uncommitToMine()
		return err
	}
	uncleReward, _ := uint256.FromBig(params.UncleReward())
	for _, u := range uncles {
		if err := m.st.AddBalance(u.Coinbase, uncleReward); err != nil {
			m.uncommitToMine()
			return err
		}
	}

	if err := m.st.Commit(); err != nil {
		return err
	}

	current.Root = m.st.Root()
	current.GasUsed = m.st.GasUsed()
	current.ParentHash = previous.Hash()
	metrics.MiningBlocksCommitted.Inc()
	return nil
}

// uncommitToMine rewinds the account cache and the state trie root to the
// point right after transactions were applied but before any reward, so
// CommitToMine can be re-run (e.g. the uncle set changed) without
// double-crediting rewards. Reverting the cache alone is not enough: a
// completed CommitToMine already ran the trie's own commit, so a later
// re-run must also retarget the trie to the pre-reward root or the reward
// balances it wrote survive underneath the freshly reverted cache.
func (m *MiningSession) uncommitToMine() {
	if m.haveSnapshot {
		m.st.RevertToSnapshot(m.rewardSnapshot)
		m.st.SetTrieRoot(m.rewardSnapshotRoot)
		m.haveSnapshot = false
	}
}

// Mine delegates nonce search to the session's Sealer against
// header_hash_without_nonce and the header's difficulty, bounded by
// timeout. On success it persists the overlay DB, encodes the final block,
// and stamps current_block.hash.
func (m *MiningSession) Mine(ctx context.Context, timeout time.Duration) (MineInfo, error) {
	current := m.st.CurrentBlock()
	start := time.Now()

	nonce, ok := m.sealer.Seal(ctx, current.HashWithoutNonce(), current.Difficulty, timeout)
	metrics.MiningSealDuration.Observe(time.Since(start).Seconds())
	if !ok {
		return MineInfo{Completed: false, Elapsed: time.Since(start)}, nil
	}
	metrics.MiningBlocksSealed.Inc()
	current.Nonce = nonce

	if err := m.st.OverlayDB().Commit(); err != nil {
		return MineInfo{}, err
	}

	uncles := m.chain.Siblings(m.st.PreviousBlock().ParentHash, m.st.PreviousBlock().Hash())
	if len(uncles) > maxUncles {
		uncles = uncles[:maxUncles]
	}
	block := types.NewBlock(current, &types.Body{Receipts: m.st.Receipts(), Uncles: uncles})

	// current_block now carries its sealed nonce, so this hits Sync's
	// already-the-tip branch: previous_block advances to it and a fresh
	// current_block is built for the next round, without replaying anything.
	if _, err := m.st.Sync(m.chain, current.Hash(), m.exec); err != nil {
		return MineInfo{}, err
	}
	m.haveSnapshot = false

	return MineInfo{Completed: true, Elapsed: time.Since(start), Block: block}, nil
}

const maxUncles = 2

func hashUncleList(uncles []*types.Header) common.Hash {
	var payload []byte
	for _, u := range uncles {
		enc, err := rlp.EncodeToBytes(u)
		if err != nil {
			panic(err)
		}
		payload = append(payload, enc...)
	}
	return crypto.Keccak256Hash(rlp.WrapList(payload))
}

func buildManifestRootFromReceipts(receipts []*types.Receipt) (common.Hash, error) {
	return state.ManifestRoot(receipts)
}
