package core

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
	"github.com/ethpoc/ethpoc/core/vm"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
)

// Executive dispatches one decoded transaction against a State, running
// the VM for contract creation and calls.
type Executive struct {
	st *state.State
	vm *vm.Interpreter
}

func NewExecutive(st *state.State) *Executive {
	return &Executive{st: st, vm: vm.NewInterpreter()}
}

// IsIncluded reports whether txHash has already been executed into the
// current receipt set, for a tx-queue drain that must skip re-execution.
func (ex *Executive) IsIncluded(txHash common.Hash) bool {
	return ex.st.IsIncluded(txHash)
}

// Execute decodes and runs a single RLP-encoded transaction against the
// Executive's State, following §4.6 exactly: verify signature, check
// nonce and balance, debit gas upfront, run creation or call, refund
// unused gas, reward the coinbase for gas actually spent, and append the
// resulting receipt.
func (ex *Executive) Execute(txRLP []byte) (*types.Receipt, error) {
	tx, err := types.DecodeTransactionRLP(txRLP)
	if err != nil {
		return nil, err
	}
	return ex.ExecuteTx(tx)
}

// ExecuteTx runs an already-decoded transaction; Execute is a thin RLP
// wrapper over this.
func (ex *Executive) ExecuteTx(tx *types.Transaction) (*types.Receipt, error) {
	sender, err := tx.Sender()
	if err != nil {
		return nil, types.ErrInvalidSender
	}

	senderNonce, err := ex.st.GetNonce(sender)
	if err != nil {
		return nil, err
	}
	txNonce := uint256.NewInt(tx.Nonce)
	if !txNonce.Eq(&senderNonce) {
		return nil, &state.InvalidNonceError{Required: &senderNonce, Got: txNonce}
	}

	gas := uint256.NewInt(tx.GasLimit)
	gasPrice, _ := uint256.FromBig(tx.GasPrice)
	upfrontCost := new(uint256.Int).Mul(gas, gasPrice)
	value, _ := uint256.FromBig(tx.Value)
	total := new(uint256.Int).Add(upfrontCost, value)

	senderBalance, err := ex.st.GetBalance(sender)
	if err != nil {
		return nil, err
	}
	if senderBalance.Lt(total) {
		return nil, state.ErrInsufficientBalance
	}

	if err := ex.st.SubBalance(sender, upfrontCost); err != nil {
		return nil, err
	}
	if err := ex.st.NoteSending(sender); err != nil {
		return nil, err
	}

	gasLimit := tx.GasLimit
	var leftOverGas uint64
	var execErr error

	if tx.IsContractCreation() {
		_, leftOverGas, execErr = ex.create(sender, value, gasPrice, gasLimit, tx.Data)
	} else {
		leftOverGas, execErr = ex.call(sender, *tx.To, value, gasPrice, gasLimit, tx.Data)
	}
	if execErr != nil {
		leftOverGas = 0
	}

	gasUsed := gasLimit - leftOverGas

	refund := new(uint256.Int).Mul(uint256.NewInt(leftOverGas), gasPrice)
	if err := ex.st.AddBalance(sender, refund); err != nil {
		return nil, err
	}
	coinbaseFee := new(uint256.Int).Mul(uint256.NewInt(gasUsed), gasPrice)
	if err := ex.st.AddBalance(ex.st.CurrentBlock().Coinbase, coinbaseFee); err != nil {
		return nil, err
	}

	postRoot, err := ex.st.IntermediateRoot()
	if err != nil {
		return nil, err
	}
	cumulativeGas := ex.st.GasUsed() + gasUsed
	receipt := types.NewReceipt(tx, postRoot, cumulativeGas)
	ex.st.AppendReceipt(receipt, tx.Hash())
	return receipt, nil
}

// create debits value from sender and funds a new contract at the
// deterministic creation address with it, then runs init code on the VM;
// on non-exceptional termination the returned bytes become the contract's
// code.
func (ex *Executive) create(sender common.Address, value, gasPrice *uint256.Int, gas uint64, initCode []byte) (common.Address, uint64, error) {
	senderNonceAfter, err := ex.st.GetNonce(sender)
	if err != nil {
		return common.Address{}, 0, err
	}
	addr, err := newContractAddress(ex.st, sender, senderNonceAfter)
	if err != nil {
		return common.Address{}, 0, err
	}

	snap := ex.st.Snapshot()
	if err := ex.st.SubBalance(sender, value); err != nil {
		ex.st.RevertToSnapshot(snap)
		return common.Address{}, 0, err
	}
	if err := ex.st.AddBalance(addr, value); err != nil {
		ex.st.RevertToSnapshot(snap)
		return common.Address{}, 0, err
	}

	host := newExtVM(ex.st, ex.vm, addr, sender, sender, value, gasPrice, nil, initCode, 0)
	ret, leftOverGas, err := ex.vm.Run(host, gas)
	if err != nil {
		ex.st.RevertToSnapshot(snap)
		return addr, 0, nil
	}
	if err := ex.st.SetCode(addr, ret); err != nil {
		return addr, 0, err
	}
	return addr, leftOverGas, nil
}

// call debits value from sender and credits it to to, then, if to has
// code, runs it against data. An exceptional VM termination reverts the
// value transfer as well.
func (ex *Executive) call(sender, to common.Address, value, gasPrice *uint256.Int, gas uint64, data []byte) (uint64, error) {
	snap := ex.st.Snapshot()
	if err := ex.st.SubBalance(sender, value); err != nil {
		ex.st.RevertToSnapshot(snap)
		return 0, err
	}
	if err := ex.st.AddBalance(to, value); err != nil {
		ex.st.RevertToSnapshot(snap)
		return 0, err
	}

	code, err := ex.st.GetCode(to)
	if err != nil {
		return 0, err
	}
	if len(code) == 0 {
		return gas, nil
	}

	host := newExtVM(ex.st, ex.vm, to, sender, sender, value, gasPrice, data, code, 0)
	_, leftOverGas, err := ex.vm.Run(host, gas)
	if err != nil {
		ex.st.RevertToSnapshot(snap)
		return 0, nil
	}
	return leftOverGas, nil
}

// newContractAddress computes right160(H(rlp([sender, nonceAtCreation-1])))
// once, then disambiguates a collision by incrementing the resulting address itself
// (treated as a 160-bit integer) until it names no live account — the
// "bump if in use" rule in §4.6.
func newContractAddress(st *state.State, sender common.Address, nonceAtCreation uint256.Int) (common.Address, error) {
	nonce := nonceAtCreation.ToBig()
	nonce.Sub(nonce, big.NewInt(1))
	enc, err := encodeCreationPreimage(sender, nonce)
	if err != nil {
		return common.Address{}, err
	}
	addr := common.BytesToAddress(hashRight160(enc))

	for {
		exists, err := st.Exists(addr)
		if err != nil {
			return common.Address{}, err
		}
		if !exists {
			return addr, nil
		}
		addr = incrementAddress(addr)
	}
}

// incrementAddress adds 1 to addr treated as a big-endian 160-bit integer,
// matching the original's `(u160)newAddress + 1` collision bump.
func incrementAddress(addr common.Address) common.Address {
	n := new(big.Int).SetBytes(addr.Bytes())
	n.Add(n, big.NewInt(1))
	b := n.Bytes()
	var out common.Address
	if len(b) > len(out) {
		b = b[len(b)-len(out):]
	}
	copy(out[len(out)-len(b):], b)
	return out
}

// hashRight160 returns the rightmost 160 bits of Keccak256(data).
func hashRight160(data []byte) []byte {
	return crypto.Keccak256(data)[12:]
}

func encodeCreationPreimage(sender common.Address, nonce *big.Int) ([]byte, error) {
	var payload []byte
	payload = rlp.AppendBytes(payload, sender.Bytes())
	if nonce.Sign() == 0 {
		payload = append(payload, 0x80)
	} else {
		payload = rlp.AppendBytes(payload, nonce.Bytes())
	}
	return append(rlp.AppendListHeader(nil, len(payload)), payload...), nil
}
