package state

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
)

func TestState_IntermediateRootReflectsUncommittedCache(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")
	st.AddBalance(addr, uint256.NewInt(10))

	before := st.Root()
	root, err := st.IntermediateRoot()
	if err != nil {
		t.Fatalf("IntermediateRoot: %v", err)
	}
	if root == before {
		t.Fatal("IntermediateRoot should reflect the pending account change")
	}
	// IntermediateRoot must not clear the cache (Commit does).
	bal, _ := st.GetBalance(addr)
	if bal.Cmp(uint256.NewInt(10)) != 0 {
		t.Fatal("IntermediateRoot should not drop cached account state")
	}
}

func TestState_CommitMatchesIntermediateRoot(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")
	st.AddBalance(addr, uint256.NewInt(10))

	root, err := st.IntermediateRoot()
	if err != nil {
		t.Fatalf("IntermediateRoot: %v", err)
	}
	if err := st.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if st.Root() != root {
		t.Fatalf("Root() after Commit = %s, want %s (from IntermediateRoot)", st.Root(), root)
	}
}

func TestState_CommitClearsCache(t *testing.T) {
	st := newTestState(t)
	addr := common.HexToAddress("0x01")
	st.AddBalance(addr, uint256.NewInt(10))
	if err := st.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	// A subsequent read must still resolve via the trie, not a stale cache.
	bal, err := st.GetBalance(addr)
	if err != nil || bal.Cmp(uint256.NewInt(10)) != 0 {
		t.Fatalf("GetBalance after commit = %v, %v, want 10, nil", bal.String(), err)
	}
}
