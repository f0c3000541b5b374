package core

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/consensus"
	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/params"
)

// fakeChain is a state.BlockChain with no known headers or siblings, for a
// session mining in isolation from any peer chain.
type fakeChain struct{}

func (fakeChain) HeaderByHash(common.Hash) (*types.Header, bool) { return nil, false }
func (fakeChain) BlockByHash(common.Hash) (*types.Block, bool)   { return nil, false }
func (fakeChain) Siblings(parent, exclude common.Hash) []*types.Header {
	return nil
}

func newMiningState(t *testing.T) (*state.State, common.Address) {
	t.Helper()
	coinbase := common.HexToAddress("0xc0ffee")
	st, err := state.NewInMemory(coinbase)
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	return st, coinbase
}

func TestMiningSession_CommitToMine_CreditsBlockReward(t *testing.T) {
	st, coinbase := newMiningState(t)
	session := NewMiningSession(st, fakeChain{}, consensus.MockSealer{})

	if err := session.CommitToMine(); err != nil {
		t.Fatalf("CommitToMine: %v", err)
	}

	bal, err := st.GetBalance(coinbase)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	want, _ := uint256.FromBig(params.BlockReward)
	if bal.Cmp(want) != 0 {
		t.Fatalf("coinbase balance = %s, want block reward %s", &bal, want)
	}

	current := st.CurrentBlock()
	if current.Root != st.Root() {
		t.Fatal("current_block.Root should match the committed trie root")
	}
	if current.ParentHash != st.PreviousBlock().Hash() {
		t.Fatal("current_block.ParentHash should point at previous_block")
	}
}

func TestMiningSession_CommitToMine_RerunDoesNotDoubleCreditReward(t *testing.T) {
	st, coinbase := newMiningState(t)
	session := NewMiningSession(st, fakeChain{}, consensus.MockSealer{})

	if err := session.CommitToMine(); err != nil {
		t.Fatalf("first CommitToMine: %v", err)
	}
	if err := session.CommitToMine(); err != nil {
		t.Fatalf("second CommitToMine: %v", err)
	}

	bal, err := st.GetBalance(coinbase)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	want, _ := uint256.FromBig(params.BlockReward)
	if bal.Cmp(want) != 0 {
		t.Fatalf("coinbase balance after two commits = %s, want a single block reward %s", &bal, want)
	}
}

func TestMiningSession_Mine_AdvancesChainPosition(t *testing.T) {
	st, _ := newMiningState(t)
	session := NewMiningSession(st, fakeChain{}, consensus.MockSealer{})

	if err := session.CommitToMine(); err != nil {
		t.Fatalf("CommitToMine: %v", err)
	}
	pending := st.CurrentBlock()
	pendingHash := pending.Hash()

	info, err := session.Mine(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if !info.Completed {
		t.Fatal("Mine with MockSealer should always complete")
	}
	if info.Block == nil {
		t.Fatal("a completed Mine must return a block")
	}
	if info.Block.Header().Hash() != pendingHash {
		t.Fatalf("mined block hash = %s, want %s", info.Block.Header().Hash(), pendingHash)
	}

	if st.PreviousBlock().Hash() != pendingHash {
		t.Fatal("Mine should advance previous_block to the sealed block")
	}
	if st.CurrentBlock() == pending {
		t.Fatal("Mine should leave a fresh current_block for the next round, not the sealed one")
	}
	if st.CurrentBlock().ParentHash != pendingHash {
		t.Fatal("the fresh current_block should chain off the just-mined block")
	}
}

func TestMiningSession_Mine_TimeoutLeavesChainPositionUnchanged(t *testing.T) {
	st, _ := newMiningState(t)
	session := NewMiningSession(st, fakeChain{}, consensus.NeverSealer{})

	if err := session.CommitToMine(); err != nil {
		t.Fatalf("CommitToMine: %v", err)
	}
	before := st.PreviousBlock().Hash()

	info, err := session.Mine(context.Background(), time.Millisecond)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if info.Completed {
		t.Fatal("Mine with NeverSealer should never complete")
	}
	if st.PreviousBlock().Hash() != before {
		t.Fatal("a timed-out seal must not advance previous_block")
	}
}

func TestMiningSession_SyncQueue_ExecutesPendingTransfer(t *testing.T) {
	st, _ := newMiningState(t)
	session := NewMiningSession(st, fakeChain{}, consensus.MockSealer{})

	prv := newTestKey(t)
	sender := senderAddress(t, prv)
	recipient := common.HexToAddress("0xbeef")

	if err := st.AddBalance(sender, uint256.NewInt(1000)); err != nil {
		t.Fatalf("AddBalance: %v", err)
	}

	tx := &types.Transaction{
		Nonce:    0,
		GasPrice: bigOne(),
		GasLimit: 500,
		To:       &recipient,
		Value:    bigTen(),
	}
	if err := tx.Sign(prv); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	queue := NewTxQueue()
	queue.Add(encodeTx(t, tx))

	receipts := session.SyncQueue(queue)
	if len(receipts) != 1 {
		t.Fatalf("len(receipts) = %d, want 1", len(receipts))
	}
	if queue.Pending() != 0 || queue.Future() != 0 {
		t.Fatalf("queue after sync: pending=%d future=%d, want 0, 0", queue.Pending(), queue.Future())
	}

	recipientBal, err := st.GetBalance(recipient)
	if err != nil || recipientBal.Cmp(uint256.NewInt(10)) != 0 {
		t.Fatalf("recipient balance = %v, %v, want 10", recipientBal, err)
	}
	senderBal, err := st.GetBalance(sender)
	if err != nil || senderBal.Cmp(uint256.NewInt(990)) != 0 {
		t.Fatalf("sender balance = %v, %v, want 990 (no code at recipient, full gas refunded)", senderBal, err)
	}
}
