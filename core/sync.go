package core

import (
	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/state"
)

// SyncChain advances st to blockHash along chain, executing any newly
// discovered blocks through a fresh Executive. This is the thin wiring
// state.State.Sync needs to stay independent of the Executive it drives.
func SyncChain(st *state.State, chain state.BlockChain, blockHash common.Hash) (bool, error) {
	return st.Sync(chain, blockHash, NewExecutive(st))
}
