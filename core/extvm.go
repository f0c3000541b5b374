// Package core wires together core/state, core/vm, and core/types into
// the engine's transaction-execution and block-validation glue:
// Executive dispatches a transaction through the VM, ExtVM is the host
// environment the VM runs against, and the sync/mining files drive
// State forward block by block.
package core

import (
	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/core/vm"
	"github.com/ethpoc/ethpoc/metrics"
)

// ExtVM is the host environment a running contract call sees: its own
// identity, the calling context, and the State it may read and mutate.
// A fresh ExtVM is constructed for every CALL/CREATE frame.
type ExtVM struct {
	st *state.State
	vm *vm.Interpreter

	myAddress common.Address
	caller    common.Address
	origin    common.Address
	value     *uint256.Int
	gasPrice  *uint256.Int
	data      []byte
	code      []byte

	depth int
}

const maxCallDepth = 1024

func newExtVM(st *state.State, interp *vm.Interpreter, myAddress, caller, origin common.Address, value, gasPrice *uint256.Int, data, code []byte, depth int) *ExtVM {
	return &ExtVM{
		st: st, vm: interp,
		myAddress: myAddress, caller: caller, origin: origin,
		value: value, gasPrice: gasPrice, data: data, code: code,
		depth: depth,
	}
}

func (e *ExtVM) MyAddress() common.Address { return e.myAddress }
func (e *ExtVM) Caller() common.Address    { return e.caller }
func (e *ExtVM) Origin() common.Address    { return e.origin }
func (e *ExtVM) CallValue() *uint256.Int   { return e.value }
func (e *ExtVM) GasPrice() *uint256.Int    { return e.gasPrice }
func (e *ExtVM) Data() []byte              { return e.data }
func (e *ExtVM) Code() []byte              { return e.code }

func (e *ExtVM) CodeAt(pc uint64) vm.OpCode {
	if pc < uint64(len(e.code)) {
		return vm.OpCode(e.code[pc])
	}
	return vm.STOP
}

func (e *ExtVM) PreviousBlock() *types.Header { return e.st.PreviousBlock() }
func (e *ExtVM) CurrentBlock() *types.Header  { return e.st.CurrentBlock() }

func (e *ExtVM) Balance(addr common.Address) (uint256.Int, error) {
	return e.st.GetBalance(addr)
}

func (e *ExtVM) SubBalance(value *uint256.Int) error {
	return e.st.SubBalance(e.myAddress, value)
}

func (e *ExtVM) Load(key *uint256.Int) (uint256.Int, error) {
	return e.st.GetStorageAt(e.myAddress, *key)
}

func (e *ExtVM) Store(key, value *uint256.Int) error {
	return e.st.SetStorageAt(e.myAddress, *key, *value)
}

// Suicide transfers the account's full balance to dest. Only the balance
// changes: the account's nonce, storage and code are left as they are, so
// State.Commit removes the account only if nothing else keeps it alive.
func (e *ExtVM) Suicide(dest common.Address) error {
	bal, err := e.st.GetBalance(e.myAddress)
	if err != nil {
		return err
	}
	if err := e.st.SubBalance(e.myAddress, &bal); err != nil {
		return err
	}
	return e.st.AddBalance(dest, &bal)
}

// Snapshot and Revert delegate to State's cache journal: the snapshot
// taken at a call frame's entry is restored verbatim if the frame
// terminates exceptionally, per the per-frame revert policy in §4.8.
func (e *ExtVM) Snapshot() int       { return e.st.Snapshot() }
func (e *ExtVM) Revert(snapshot int) { e.st.RevertToSnapshot(snapshot) }

// Call invokes to with value as a message call, running its code (if
// any) against in as calldata. Per spec, exceptional VM termination in
// the callee causes the caller to see success=false and 0 gas refunded
// beyond what's returned; it does not propagate as a Go error. Any
// state mutation made by the callee (and the value transfer itself) is
// rolled back to the snapshot taken at call entry.
func (e *ExtVM) Call(gas uint64, to common.Address, value *uint256.Int, in []byte) ([]byte, uint64, bool) {
	metrics.VMCalls.Inc()
	if e.depth+1 > maxCallDepth {
		return nil, gas, false
	}
	snap := e.st.Snapshot()

	bal, err := e.st.GetBalance(e.myAddress)
	if err != nil || bal.Lt(value) {
		e.st.RevertToSnapshot(snap)
		return nil, gas, false
	}
	if err := e.st.SubBalance(e.myAddress, value); err != nil {
		e.st.RevertToSnapshot(snap)
		return nil, gas, false
	}
	if err := e.st.AddBalance(to, value); err != nil {
		e.st.RevertToSnapshot(snap)
		return nil, gas, false
	}

	code, err := e.st.GetCode(to)
	if err != nil {
		e.st.RevertToSnapshot(snap)
		return nil, gas, false
	}
	if len(code) == 0 {
		return nil, gas, true
	}

	callee := newExtVM(e.st, e.vm, to, e.myAddress, e.origin, value, e.gasPrice, in, code, e.depth+1)
	ret, leftOver, err := e.vm.Run(callee, gas)
	if err != nil {
		e.st.RevertToSnapshot(snap)
		return nil, 0, false
	}
	return ret, leftOver, true
}

// Create deploys initCode as a new contract, funding it with endowment.
// It derives the new address itself from the creating account's current
// nonce via newContractAddress (right160(H(rlp([sender, nonce-1]))),
// bumped on collision); the creating account's nonce is not incremented.
func (e *ExtVM) Create(endowment *uint256.Int, gas uint64, initCode []byte) (common.Address, uint64, bool) {
	metrics.VMCreates.Inc()
	if e.depth+1 > maxCallDepth {
		return common.Address{}, gas, false
	}
	snap := e.st.Snapshot()

	bal, err := e.st.GetBalance(e.myAddress)
	if err != nil || bal.Lt(endowment) {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, gas, false
	}

	nonce, err := e.st.GetNonce(e.myAddress)
	if err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, gas, false
	}
	addr, err := newContractAddress(e.st, e.myAddress, nonce)
	if err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, gas, false
	}

	if err := e.st.SubBalance(e.myAddress, endowment); err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, gas, false
	}
	if err := e.st.AddBalance(addr, endowment); err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, gas, false
	}

	callee := newExtVM(e.st, e.vm, addr, e.myAddress, e.origin, endowment, e.gasPrice, nil, initCode, e.depth+1)
	ret, leftOver, err := e.vm.Run(callee, gas)
	if err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, 0, false
	}
	if err := e.st.SetCode(addr, ret); err != nil {
		e.st.RevertToSnapshot(snap)
		return common.Address{}, 0, false
	}
	return addr, leftOver, true
}
