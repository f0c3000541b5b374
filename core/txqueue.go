package core

import (
	"errors"

	"github.com/ethpoc/ethpoc/core/state"
	"github.com/ethpoc/ethpoc/core/types"
)

// TxQueue holds transactions not yet folded into a block: a pending set
// ready to try against the current state, and a future bucket for ones
// whose nonce is ahead of what the sender's account currently allows.
// Single-threaded per the State it feeds, like everything else here.
type TxQueue struct {
	pending [][]byte
	future  [][]byte
}

func NewTxQueue() *TxQueue { return &TxQueue{} }

// Add enqueues a raw RLP-encoded transaction.
func (q *TxQueue) Add(txRLP []byte) {
	q.pending = append(q.pending, txRLP)
}

// Pending reports how many transactions are waiting for the next Sync.
func (q *TxQueue) Pending() int { return len(q.pending) }

// Future reports how many transactions are shelved pending a nonce gap.
func (q *TxQueue) Future() int { return len(q.future) }

// Sync implements §4.5's tx-queue drain: repeatedly execute every
// not-yet-included transaction until a full pass adds nothing more. A
// transaction whose nonce is strictly below what the sender's account now
// requires is dropped outright (it can never become valid); one that is
// ahead is shelved in the future bucket for the next Sync call; any other
// failure drops it.
func (q *TxQueue) Sync(exec *Executive) []*types.Receipt {
	work := append(q.pending, q.future...)
	q.pending = nil
	q.future = nil

	var receipts []*types.Receipt
	for {
		progressed := false
		var next [][]byte
		for _, raw := range work {
			tx, err := types.DecodeTransactionRLP(raw)
			if err != nil {
				continue
			}
			if exec.IsIncluded(tx.Hash()) {
				continue
			}

			receipt, err := exec.ExecuteTx(tx)
			if err == nil {
				receipts = append(receipts, receipt)
				progressed = true
				continue
			}

			var nonceErr *state.InvalidNonceError
			if errors.As(err, &nonceErr) {
				if nonceErr.Got.Lt(nonceErr.Required) {
					continue
				}
				next = append(next, raw)
				continue
			}
			// any other failure: drop
		}
		work = next
		if !progressed {
			break
		}
	}
	q.future = work
	return receipts
}
