// Package params holds the protocol constants this engine hard-codes: the
// VM gas schedule and the block-reward formula.
package params

// Gas schedule, per the reference parameterization.
const (
	StepGas      uint64 = 1
	SstoreGas    uint64 = 100
	SloadGas     uint64 = 20
	Sha3Gas      uint64 = 20
	EcrecoverGas uint64 = 20
	BalanceGas   uint64 = 20
	CallGas      uint64 = 20
	CreateGas    uint64 = 100
	MemoryGas    uint64 = 1
)

// DefaultMinGasPrice seeds the first ever current_block, whose header has no
// parent to inherit a min_gas_price from.
const DefaultMinGasPrice int64 = 1
