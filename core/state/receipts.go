package state

import (
	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
)

// AppendReceipt records r as the next receipt in the block under
// construction and marks txHash as included, so a later pass over the
// transaction queue skips it.
func (s *State) AppendReceipt(r *types.Receipt, txHash common.Hash) {
	s.receipts = append(s.receipts, r)
	s.transactionSet[txHash] = struct{}{}
}

// Receipts returns the receipts accumulated since the last call to
// ResetReceipts (i.e. since current_block was last rebuilt or a block was
// played back).
func (s *State) Receipts() []*types.Receipt { return s.receipts }

// IsIncluded reports whether txHash has already been executed into the
// current receipt set.
func (s *State) IsIncluded(txHash common.Hash) bool {
	_, ok := s.transactionSet[txHash]
	return ok
}

// GasUsed returns the cumulative gas consumed by the accumulated receipts.
func (s *State) GasUsed() uint64 {
	if len(s.receipts) == 0 {
		return 0
	}
	return s.receipts[len(s.receipts)-1].CumulativeGasUsed
}

// ResetReceipts clears the accumulated receipt set, for starting a fresh
// block.
func (s *State) ResetReceipts() {
	s.receipts = nil
	s.transactionSet = make(map[common.Hash]struct{})
}
