// Package consensus defines the boundary between the state-transition
// engine and proof-of-work: the nonce search itself is an external
// collaborator, not something this package implements, but its
// input/output contract and the header checks a miner or validator
// performs around it live here.
package consensus

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/core/types"
)

// ErrSealTimeout is returned by a Sealer that exhausted its budget without
// finding a qualifying nonce.
var ErrSealTimeout = errors.New("consensus: seal timed out")

// Sealer is the proof-of-work oracle boundary: given a header hash with the
// nonce field zeroed and a difficulty target, search for a nonce under
// which H(rlp(header_without_nonce) || nonce) (or an equivalent mix, left
// to the implementation) satisfies the difficulty. The search loop itself
// is out of scope here; only this contract is.
type Sealer interface {
	Seal(ctx context.Context, hashWithoutNonce common.Hash, difficulty *big.Int, timeout time.Duration) (nonce common.BlockNonce, ok bool)
}

// MockSealer is a test double that always succeeds immediately, returning
// nonce 0. It exists so mining.go's orchestration can be exercised without
// a real search loop.
type MockSealer struct{}

func (MockSealer) Seal(ctx context.Context, hashWithoutNonce common.Hash, difficulty *big.Int, timeout time.Duration) (common.BlockNonce, bool) {
	return common.BlockNonce{}, true
}

// NeverSealer is a test double that always fails, for exercising the
// ms_timeout-elapsed path.
type NeverSealer struct{}

func (NeverSealer) Seal(ctx context.Context, hashWithoutNonce common.Hash, difficulty *big.Int, timeout time.Duration) (common.BlockNonce, bool) {
	return common.BlockNonce{}, false
}

// VerifyParent checks that child is a legitimate descendant of parent: its
// timestamp must not precede the parent's, and its difficulty must be the
// value CalcDifficulty would derive from the parent. Block-level parent
// linkage (parent_hash equality) is checked by the caller against the
// specific field the spec names; this covers the derived fields.
func VerifyParent(child, parent *types.Header) error {
	if parent == nil {
		return nil
	}
	if child.Time < parent.Time {
		return ErrChildBeforeParent
	}
	want := CalcDifficulty(parent.Time, child.Time, parent.Difficulty)
	if child.Difficulty == nil || child.Difficulty.Cmp(want) != 0 {
		return ErrUncleWrongDifficulty
	}
	return nil
}

var (
	ErrChildBeforeParent    = errors.New("consensus: child timestamp precedes parent")
	ErrUncleWrongDifficulty = errors.New("consensus: header difficulty does not match the parent-derived target")
)
