package state

import (
	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
)

// BlockChain is the minimal chain-lookup interface State consumes to walk
// ancestors during sync. Peer-to-peer networking and persistence of the
// chain itself are out of scope here — this is a narrow collaborator
// interface, not an implementation.
type BlockChain interface {
	// HeaderByHash returns the header for hash, or ok=false if unknown.
	HeaderByHash(hash common.Hash) (header *types.Header, ok bool)
	// BlockByHash returns the full block (header, transactions, uncles)
	// for hash, or ok=false if unknown.
	BlockByHash(hash common.Hash) (block *types.Block, ok bool)
	// Siblings returns the children of parent other than exclude, used to
	// gather uncle candidates while mining.
	Siblings(parent common.Hash, exclude common.Hash) []*types.Header
}
