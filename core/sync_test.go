package core

import (
	"testing"

	"github.com/ethpoc/ethpoc/common"
)

func TestSyncChain_AdvancesToCurrentTip(t *testing.T) {
	st := newExecutiveTestState(t)

	pending := st.CurrentBlock()
	pendingHash := pending.Hash()

	advanced, err := SyncChain(st, fakeChain{}, pendingHash)
	if err != nil {
		t.Fatalf("SyncChain: %v", err)
	}
	if !advanced {
		t.Fatal("SyncChain to the current tip should report an advance")
	}
	if st.PreviousBlock().Hash() != pendingHash {
		t.Fatal("SyncChain should advance previous_block to the named tip")
	}
	if st.CurrentBlock().ParentHash != pendingHash {
		t.Fatal("the fresh current_block should chain off the new tip")
	}
}

func TestSyncChain_AlreadyPreviousTipIsNoop(t *testing.T) {
	st := newExecutiveTestState(t)

	pendingHash := st.CurrentBlock().Hash()
	if _, err := SyncChain(st, fakeChain{}, pendingHash); err != nil {
		t.Fatalf("first SyncChain: %v", err)
	}
	previousHash := st.PreviousBlock().Hash()

	advanced, err := SyncChain(st, fakeChain{}, previousHash)
	if err != nil {
		t.Fatalf("second SyncChain: %v", err)
	}
	if advanced {
		t.Fatal("SyncChain to the already-synced previous tip should report no advance")
	}
	if st.PreviousBlock().Hash() != previousHash {
		t.Fatal("a no-op SyncChain must not move previous_block")
	}
}

func TestSyncChain_UnknownAncestorFails(t *testing.T) {
	st := newExecutiveTestState(t)

	_, err := SyncChain(st, fakeChain{}, common.HexToHash("0xdeadbeef"))
	if err == nil {
		t.Fatal("SyncChain to an unresolvable hash must fail")
	}
}
