package vm

import (
	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
)

// Host is ExtVM: the interface through which a running contract's
// environment and the ledger are exposed to the interpreter. The
// interpreter takes a mutable borrow of a Host for the duration of one
// call frame; Host implementations live in package core, which imports
// vm and core/state, to avoid a vm -> state import cycle.
type Host interface {
	MyAddress() common.Address
	Caller() common.Address
	Origin() common.Address
	CallValue() *uint256.Int
	GasPrice() *uint256.Int
	Data() []byte
	Code() []byte
	CodeAt(pc uint64) OpCode

	PreviousBlock() *types.Header
	CurrentBlock() *types.Header

	Balance(addr common.Address) (uint256.Int, error)
	SubBalance(value *uint256.Int) error

	Load(key *uint256.Int) (uint256.Int, error)
	Store(key, value *uint256.Int) error

	// Call invokes to with value and in as calldata, passing at most gas.
	// It returns the callee's return data, the gas left unspent, and
	// whether the call succeeded.
	Call(gas uint64, to common.Address, value *uint256.Int, in []byte) (ret []byte, leftOverGas uint64, success bool)

	// Create deploys initCode as a new contract funded with endowment.
	// It returns the new contract's address, gas left unspent, and
	// success.
	Create(endowment *uint256.Int, gas uint64, initCode []byte) (addr common.Address, leftOverGas uint64, success bool)

	Suicide(dest common.Address) error

	// Snapshot and Revert bound a call frame: Snapshot is taken at frame
	// entry, Revert restores it on exceptional termination.
	Snapshot() int
	Revert(snapshot int)
}
