package types

import "github.com/ethpoc/ethpoc/common"

// Receipt is the per-transaction record appended to a block's transaction
// list after execution: the transaction itself, the state trie root observed
// immediately after it ran, and the cumulative gas used by the block up to
// and including this transaction.
//
// This engine predates the Byzantium status-byte receipt format (PostState
// root IS the success/failure signal: a reverted transaction is never
// appended, so every receipt that exists describes a successful execution)
// and predates LOG/event support, so neither a Status field nor a Logs/Bloom
// pair is carried here.
type Receipt struct {
	Tx              *Transaction
	PostStateRoot   common.Hash
	CumulativeGasUsed uint64
}

// NewReceipt builds a receipt for a just-executed transaction.
func NewReceipt(tx *Transaction, postStateRoot common.Hash, cumulativeGasUsed uint64) *Receipt {
	return &Receipt{Tx: tx, PostStateRoot: postStateRoot, CumulativeGasUsed: cumulativeGasUsed}
}

// GasUsed derives the gas this particular transaction consumed from the
// running total, given the cumulative total observed before it ran.
func (r *Receipt) GasUsed(priorCumulative uint64) uint64 {
	return r.CumulativeGasUsed - priorCumulative
}
