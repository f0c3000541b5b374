package vm

import "github.com/ethpoc/ethpoc/params"

// memoryGasCost returns the incremental cost of growing memory from
// oldWords to newWords, per the flat c_memory_gas-per-word schedule.
func memoryGasCost(oldWords, newWords uint64) uint64 {
	if newWords <= oldWords {
		return 0
	}
	return (newWords - oldWords) * params.MemoryGas
}

// sstoreGasCost implements the SSTORE pricing rule: writing a nonzero
// value over a zero slot costs double, writing zero over a nonzero slot
// is free (refund policy elided), anything else costs the base rate.
func sstoreGasCost(current, value uint64) uint64 {
	switch {
	case current == 0 && value != 0:
		return 2 * params.SstoreGas
	case current != 0 && value == 0:
		return 0
	default:
		return params.SstoreGas
	}
}
