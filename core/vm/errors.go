package vm

import "errors"

var (
	ErrOutOfGas      = errors.New("vm: out of gas")
	ErrInvalidJump   = errors.New("vm: invalid jump destination")
	ErrBadInstruction = errors.New("vm: bad instruction")
	ErrOperandOutOfRange = errors.New("vm: operand out of range")
)
