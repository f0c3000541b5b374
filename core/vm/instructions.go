package vm

import (
	"github.com/holiman/uint256"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
)

var sigRecover = crypto.NewSigRecover()

func opAdd(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Add(x, y))
	return nil, nil
}

func opMul(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Mul(x, y))
	return nil, nil
}

func opSub(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Sub(x, y))
	return nil, nil
}

func opDiv(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Div(x, y)) // uint256.Div defines x/0 == 0
	return nil, nil
}

func opSdiv(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.SDiv(x, y))
	return nil, nil
}

func opMod(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Mod(x, y))
	return nil, nil
}

func opSmod(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.SMod(x, y))
	return nil, nil
}

func opExp(f *Frame, host Host) ([]byte, error) {
	base, _ := f.Stack.Pop()
	exponent, _ := f.Stack.Pop()
	f.Stack.Push(base.Exp(base, exponent))
	return nil, nil
}

func opNeg(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	zero := new(uint256.Int)
	f.Stack.Push(x.Sub(zero, x))
	return nil, nil
}

func opLt(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.Lt(y)))
	return nil, nil
}

func opGt(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.Gt(y)))
	return nil, nil
}

func opSlt(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.Slt(y)))
	return nil, nil
}

func opSgt(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.Sgt(y)))
	return nil, nil
}

func opEq(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.Eq(y)))
	return nil, nil
}

// opNot is the unary NOT: pushes 1 if the operand is zero, else 0. There
// is no separate ISZERO; this opcode fills that role.
func opNot(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	f.Stack.Push(boolToWord(x.IsZero()))
	return nil, nil
}

func opAnd(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.And(x, y))
	return nil, nil
}

func opOr(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Or(x, y))
	return nil, nil
}

func opXor(f *Frame, host Host) ([]byte, error) {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	f.Stack.Push(x.Xor(x, y))
	return nil, nil
}

// opByte selects big-endian byte i (0 = most significant) of x, 0 if
// i >= 32.
func opByte(f *Frame, host Host) ([]byte, error) {
	i, _ := f.Stack.Pop()
	x, _ := f.Stack.Pop()
	if i.LtUint64(32) {
		b := x.Bytes32()
		f.Stack.Push(uint256.NewInt(uint64(b[i.Uint64()])))
	} else {
		f.Stack.Push(new(uint256.Int))
	}
	return nil, nil
}

func opSha3(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	data := f.Memory.Get(offset.Uint64(), size.Uint64())
	f.Stack.Push(new(uint256.Int).SetBytes(crypto.Keccak256(data)))
	return nil, nil
}

func opEcrecover(f *Frame, host Host) ([]byte, error) {
	hash, _ := f.Stack.Pop()
	r, _ := f.Stack.Pop()
	s, _ := f.Stack.Pop()
	hashB := hash.Bytes32()
	cs := &crypto.CompactSignature{}
	rb := r.Bytes32()
	sb := s.Bytes32()
	copy(cs.R[:], rb[:])
	copy(cs.S[:], sb[:])
	addr, err := sigRecover.SignatureToAddress(hashB[:], cs)
	if err != nil {
		f.Stack.Push(new(uint256.Int))
	} else {
		f.Stack.Push(new(uint256.Int).SetBytes(addr.Bytes()))
	}
	return nil, nil
}

func opAddress(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).SetBytes(host.MyAddress().Bytes()))
	return nil, nil
}

func opBalance(f *Frame, host Host) ([]byte, error) {
	addr, _ := f.Stack.Pop()
	b := addr.Bytes32()
	bal, err := host.Balance(common.BytesToAddress(b[12:]))
	if err != nil {
		return nil, err
	}
	f.Stack.Push(&bal)
	return nil, nil
}

func opOrigin(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).SetBytes(host.Origin().Bytes()))
	return nil, nil
}

func opCaller(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).SetBytes(host.Caller().Bytes()))
	return nil, nil
}

func opCallValue(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).Set(host.CallValue()))
	return nil, nil
}

func opCallDataLoad(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	data := host.Data()
	out := make([]byte, 32)
	if offset.LtUint64(uint64(len(data))) {
		o := offset.Uint64()
		copy(out, data[o:])
	}
	f.Stack.Push(new(uint256.Int).SetBytes(out))
	return nil, nil
}

func opCallDataSize(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(uint64(len(host.Data()))))
	return nil, nil
}

func opCallDataCopy(f *Frame, host Host) ([]byte, error) {
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	f.Memory.Set(destOffset.Uint64(), size.Uint64(), boundedSlice(host.Data(), offset.Uint64(), size.Uint64()))
	return nil, nil
}

func opCodeSize(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(uint64(len(host.Code()))))
	return nil, nil
}

func opCodeCopy(f *Frame, host Host) ([]byte, error) {
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	f.Memory.Set(destOffset.Uint64(), size.Uint64(), boundedSlice(host.Code(), offset.Uint64(), size.Uint64()))
	return nil, nil
}

func opGasPrice(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).Set(host.GasPrice()))
	return nil, nil
}

func opPrevHash(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).SetBytes(host.PreviousBlock().Hash().Bytes()))
	return nil, nil
}

func opCoinbase(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(new(uint256.Int).SetBytes(host.CurrentBlock().Coinbase.Bytes()))
	return nil, nil
}

func opTimestamp(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(host.CurrentBlock().Time))
	return nil, nil
}

func opNumber(f *Frame, host Host) ([]byte, error) {
	n, _ := uint256.FromBig(host.CurrentBlock().Number)
	f.Stack.Push(n)
	return nil, nil
}

func opDifficulty(f *Frame, host Host) ([]byte, error) {
	d, _ := uint256.FromBig(host.CurrentBlock().Difficulty)
	f.Stack.Push(d)
	return nil, nil
}

func opGasLimit(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(host.CurrentBlock().GasLimit))
	return nil, nil
}

func opMload(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	f.Stack.Push(new(uint256.Int).SetBytes(f.Memory.Get(offset.Uint64(), 32)))
	return nil, nil
}

func opMstore(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	f.Memory.Set32(offset.Uint64(), val)
	return nil, nil
}

func opMstore8(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	f.Memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(f *Frame, host Host) ([]byte, error) {
	key, _ := f.Stack.Pop()
	v, err := host.Load(key)
	if err != nil {
		return nil, err
	}
	f.Stack.Push(&v)
	return nil, nil
}

func opSstore(f *Frame, host Host) ([]byte, error) {
	key, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	return nil, host.Store(key, val)
}

// opJump and opJumpi treat any in-bounds destination as valid: this
// engine's opcode table has no JUMPDEST marker to validate against.
func opJump(f *Frame, host Host) ([]byte, error) {
	dest, _ := f.Stack.Pop()
	if !dest.LtUint64(uint64(len(host.Code()))) {
		return nil, ErrInvalidJump
	}
	f.PC = dest.Uint64()
	return nil, nil
}

func opJumpi(f *Frame, host Host) ([]byte, error) {
	dest, _ := f.Stack.Pop()
	cond, _ := f.Stack.Pop()
	if cond.IsZero() {
		f.PC++
		return nil, nil
	}
	if !dest.LtUint64(uint64(len(host.Code()))) {
		return nil, ErrInvalidJump
	}
	f.PC = dest.Uint64()
	return nil, nil
}

func opPC(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(f.PC))
	return nil, nil
}

func opMsize(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(uint64(f.Memory.Len())))
	return nil, nil
}

func opGasOp(f *Frame, host Host) ([]byte, error) {
	f.Stack.Push(uint256.NewInt(f.Gas))
	return nil, nil
}

func opPop(f *Frame, host Host) ([]byte, error) {
	_, err := f.Stack.Pop()
	return nil, err
}

func opDup(f *Frame, host Host) ([]byte, error) {
	n, _ := f.Stack.Pop()
	idx := int(n.Uint64())
	if idx < 1 || idx > f.Stack.Len() {
		return nil, ErrOperandOutOfRange
	}
	f.Stack.Dup(idx)
	return nil, nil
}

func opSwap(f *Frame, host Host) ([]byte, error) {
	n, _ := f.Stack.Pop()
	idx := int(n.Uint64())
	if idx < 1 || idx >= f.Stack.Len() {
		return nil, ErrOperandOutOfRange
	}
	f.Stack.Swap(idx)
	return nil, nil
}

// opPush reads PUSHn's immediate operand from code, zero-extending past
// the end of code.
func opPush(f *Frame, host Host) ([]byte, error) {
	op := host.CodeAt(f.PC)
	n := op.PushSize()
	code := host.Code()
	start := f.PC + 1
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		idx := start + uint64(i)
		if idx < uint64(len(code)) {
			buf[i] = code[idx]
		}
	}
	f.Stack.Push(new(uint256.Int).SetBytes(buf))
	f.PC += uint64(n) + 1 // the opcode byte itself, plus its n immediate bytes
	return nil, nil
}

func opReturn(f *Frame, host Host) ([]byte, error) {
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	return f.Memory.Get(offset.Uint64(), size.Uint64()), nil
}

func opSuicide(f *Frame, host Host) ([]byte, error) {
	dest, _ := f.Stack.Pop()
	b := dest.Bytes32()
	return nil, host.Suicide(common.BytesToAddress(b[12:]))
}

func opStop(f *Frame, host Host) ([]byte, error) {
	return nil, nil
}

func opCreate(f *Frame, host Host) ([]byte, error) {
	endowment, _ := f.Stack.Pop()
	initOff, _ := f.Stack.Pop()
	initSize, _ := f.Stack.Pop()
	initCode := f.Memory.Get(initOff.Uint64(), initSize.Uint64())

	addr, leftOver, ok := host.Create(endowment, f.Gas, initCode)
	f.Gas = leftOver
	if !ok {
		f.Stack.Push(new(uint256.Int))
		return nil, nil
	}
	f.Stack.Push(new(uint256.Int).SetBytes(addr.Bytes()))
	return nil, nil
}

func opCall(f *Frame, host Host) ([]byte, error) {
	gasBudget, _ := f.Stack.Pop()
	to, _ := f.Stack.Pop()
	value, _ := f.Stack.Pop()
	inOff, _ := f.Stack.Pop()
	inSize, _ := f.Stack.Pop()
	outOff, _ := f.Stack.Pop()
	outSize, _ := f.Stack.Pop()

	budget := gasBudget.Uint64()
	if budget > f.Gas {
		budget = f.Gas
	}
	in := f.Memory.Get(inOff.Uint64(), inSize.Uint64())
	b := to.Bytes32()
	ret, leftOver, ok := host.Call(budget, common.BytesToAddress(b[12:]), value, in)
	f.Gas = f.Gas - budget + leftOver

	out := outSize.Uint64()
	if out > uint64(len(ret)) {
		out = uint64(len(ret))
	}
	f.Memory.Set(outOff.Uint64(), out, ret[:out])

	f.Stack.Push(boolToWord(ok))
	return nil, nil
}

func boolToWord(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

func boundedSlice(b []byte, offset, size uint64) []byte {
	if offset >= uint64(len(b)) {
		return nil
	}
	end := offset + size
	if end > uint64(len(b)) {
		end = uint64(len(b))
	}
	return b[offset:end]
}
