package state

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientBalance is NotEnoughCash: the sender cannot cover
	// gas*gasPrice + value (or, mid-VM, a transfer's value).
	ErrInsufficientBalance = errors.New("state: insufficient balance")

	ErrInvalidParentHash            = errors.New("state: block parent_hash does not match previous_block")
	ErrInvalidStateRoot             = errors.New("state: post-commit trie root does not match header state_root")
	ErrInvalidTransactionStateRoot  = errors.New("state: transaction post_state_root mismatch")
	ErrInvalidTransactionGasUsed    = errors.New("state: transaction cumulative_gas mismatch")
	ErrInvalidTransactionsRoot      = errors.New("state: transactions_root mismatch")
	ErrUncleNotAnUncle              = errors.New("state: uncle does not share the expected grandparent")
	ErrDuplicateUncleNonce          = errors.New("state: duplicate nonce among block and uncles")
	ErrUnknownAncestor              = errors.New("state: chain has no header for a requested ancestor hash")
)

// InvalidNonceError reports a transaction nonce that does not match the
// sender's current account nonce.
type InvalidNonceError struct {
	Required *uint256.Int
	Got      *uint256.Int
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("state: invalid nonce: required %s, got %s", e.Required, e.Got)
}
