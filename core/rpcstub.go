package core

import (
	"math/big"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
)

// HostRPC is the spec-level surface external callers (a JSON-RPC server,
// a GUI bridge) would drive a running node through. This module does not
// implement a server atop it — peer-to-peer networking, the JSON-RPC
// wire format, and the GUI/scripting bridge are all out of scope — but a
// concrete State/Executive pair satisfies every method here directly, so
// a server can be layered on without touching the engine.
type HostRPC interface {
	// Account queries.
	BalanceAt(addr common.Address) (*big.Int, error)
	StorageAt(addr common.Address, key common.Hash) (common.Hash, error)
	TxCountAt(addr common.Address) (uint64, error)
	IsContractAt(addr common.Address) (bool, error)

	// Block queries.
	Block(hash common.Hash) (*types.Block, error)
	LastBlock() (*types.Block, error)

	// Chain stats.
	Coinbase() common.Address
	GasPrice() *big.Int
	PeerCount() int
	IsListening() bool
	IsMining() bool
	Keys() []common.Address

	// State-changing calls.
	Transact(to *common.Address, data []byte, sec *big.Int, gas, gasPrice, value *big.Int) (common.Hash, error)
	Create(code []byte, sec *big.Int, endowment, gas, gasPrice *big.Int) (common.Address, error)
	SimCall(dest, origin common.Address, sender common.Address, data []byte, gas, gasPrice, value *big.Int) ([]byte, error)
}
