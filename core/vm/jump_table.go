package vm

import "github.com/ethpoc/ethpoc/params"

// executionFunc executes one opcode's effect against the running frame,
// returning RETURN's output bytes (nil otherwise).
type executionFunc func(f *Frame, host Host) ([]byte, error)

// memorySizeFunc returns the highest byte offset (exclusive) the
// operation will touch in memory, given the stack before the operation
// pops its arguments. 0 means no memory access.
type memorySizeFunc func(stack *Stack) uint64

// dynamicGasFunc computes gas that depends on operand values rather than
// a flat per-opcode constant (SSTORE's zero/nonzero transition pricing).
type dynamicGasFunc func(host Host, stack *Stack) (uint64, error)

// operation is one opcode's dispatch entry: its effect, gas accounting,
// and the stack depth it requires.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  dynamicGasFunc
	memorySize  memorySizeFunc
	minStack    int
	halts       bool
	jumps       bool
}

// JumpTable dispatches every possible opcode byte to its operation.
// Unassigned entries are nil, signalling BadInstruction.
type JumpTable [256]*operation

func memSize1(off int) memorySizeFunc {
	return func(stack *Stack) uint64 {
		return stack.Back(off).Uint64() + 32
	}
}

func memSizeSpan(offIdx, sizeIdx int) memorySizeFunc {
	return func(stack *Stack) uint64 {
		return stack.Back(offIdx).Uint64() + stack.Back(sizeIdx).Uint64()
	}
}

func sstoreDynamicGas(host Host, stack *Stack) (uint64, error) {
	key := stack.Back(0)
	val := stack.Back(1)
	current, err := host.Load(key)
	if err != nil {
		return 0, err
	}
	var curWord, valWord uint64
	if !current.IsZero() {
		curWord = 1
	}
	if !val.IsZero() {
		valWord = 1
	}
	return sstoreGasCost(curWord, valWord), nil
}

// NewJumpTable builds the dispatch table for this engine's instruction
// set: arithmetic, comparison, bitwise, SHA3/ECRECOVER, environment,
// memory, storage, control flow, stack manipulation, and the CREATE/CALL/
// RETURN/SUICIDE/STOP system group.
func NewJumpTable() JumpTable {
	var jt JumpTable

	step := func(op OpCode, minStack int, fn executionFunc) {
		jt[op] = &operation{execute: fn, constantGas: params.StepGas, minStack: minStack}
	}

	step(ADD, 2, opAdd)
	step(MUL, 2, opMul)
	step(SUB, 2, opSub)
	step(DIV, 2, opDiv)
	step(SDIV, 2, opSdiv)
	step(MOD, 2, opMod)
	step(SMOD, 2, opSmod)
	step(EXP, 2, opExp)
	step(NEG, 1, opNeg)

	step(LT, 2, opLt)
	step(GT, 2, opGt)
	step(SLT, 2, opSlt)
	step(SGT, 2, opSgt)
	step(EQ, 2, opEq)
	step(NOT, 1, opNot)

	step(AND, 2, opAnd)
	step(OR, 2, opOr)
	step(XOR, 2, opXor)
	step(BYTE, 2, opByte)

	jt[SHA3] = &operation{execute: opSha3, constantGas: params.Sha3Gas, minStack: 2, memorySize: memSizeSpan(0, 1)}
	jt[ECRECOVER] = &operation{execute: opEcrecover, constantGas: params.EcrecoverGas, minStack: 3}

	step(ADDRESS, 0, opAddress)
	jt[BALANCE] = &operation{execute: opBalance, constantGas: params.BalanceGas, minStack: 1}
	step(ORIGIN, 0, opOrigin)
	step(CALLER, 0, opCaller)
	step(CALLVALUE, 0, opCallValue)
	step(CALLDATALOAD, 1, opCallDataLoad)
	step(CALLDATASIZE, 0, opCallDataSize)
	jt[CALLDATACOPY] = &operation{execute: opCallDataCopy, constantGas: params.StepGas, minStack: 3, memorySize: memSizeSpan(0, 2)}
	step(CODESIZE, 0, opCodeSize)
	jt[CODECOPY] = &operation{execute: opCodeCopy, constantGas: params.StepGas, minStack: 3, memorySize: memSizeSpan(0, 2)}
	step(GASPRICE, 0, opGasPrice)

	step(PREVHASH, 0, opPrevHash)
	step(COINBASE, 0, opCoinbase)
	step(TIMESTAMP, 0, opTimestamp)
	step(NUMBER, 0, opNumber)
	step(DIFFICULTY, 0, opDifficulty)
	step(GASLIMIT, 0, opGasLimit)

	jt[MLOAD] = &operation{execute: opMload, constantGas: params.StepGas, minStack: 1, memorySize: memSize1(0)}
	jt[MSTORE] = &operation{execute: opMstore, constantGas: params.StepGas, minStack: 2, memorySize: memSize1(0)}
	jt[MSTORE8] = &operation{execute: opMstore8, constantGas: params.StepGas, minStack: 2, memorySize: func(s *Stack) uint64 { return s.Back(0).Uint64() + 1 }}
	jt[SLOAD] = &operation{execute: opSload, constantGas: params.SloadGas, minStack: 1}
	jt[SSTORE] = &operation{execute: opSstore, minStack: 2, dynamicGas: sstoreDynamicGas}

	jt[JUMP] = &operation{execute: opJump, constantGas: params.StepGas, minStack: 1, jumps: true}
	jt[JUMPI] = &operation{execute: opJumpi, constantGas: params.StepGas, minStack: 2, jumps: true}
	step(PC, 0, opPC)
	step(MEMSIZE, 0, opMsize)
	step(GAS, 0, opGasOp)
	step(POP, 1, opPop)
	jt[DUP] = &operation{execute: opDup, constantGas: params.StepGas, minStack: 1}
	jt[SWAP] = &operation{execute: opSwap, constantGas: params.StepGas, minStack: 2}

	for op := PUSH1; op <= PUSH32; op++ {
		jt[op] = &operation{execute: opPush, constantGas: params.StepGas, minStack: 0}
	}

	jt[CREATE] = &operation{execute: opCreate, constantGas: params.CreateGas, minStack: 3, memorySize: memSizeSpan(1, 2)}
	jt[CALL] = &operation{execute: opCall, constantGas: params.CallGas, minStack: 7, memorySize: func(s *Stack) uint64 {
		argsEnd := s.Back(3).Uint64() + s.Back(4).Uint64()
		retEnd := s.Back(5).Uint64() + s.Back(6).Uint64()
		if argsEnd > retEnd {
			return argsEnd
		}
		return retEnd
	}}
	jt[RETURN] = &operation{execute: opReturn, constantGas: params.StepGas, minStack: 2, memorySize: memSizeSpan(0, 1), halts: true}
	jt[SUICIDE] = &operation{execute: opSuicide, constantGas: params.StepGas, minStack: 1, halts: true}
	jt[STOP] = &operation{execute: opStop, halts: true}

	return jt
}
