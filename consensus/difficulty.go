package consensus

import "math/big"

// MinimumDifficulty is the floor below which CalcDifficulty never drops.
var MinimumDifficulty = big.NewInt(131072)

var difficultyAdjustmentDivisor = big.NewInt(2048)

// CalcDifficulty derives a child block's difficulty from its parent's
// timestamp and difficulty: children arriving within 13 seconds of their
// parent raise the target by parentDifficulty/2048, slower children lower
// it by the same step, clamped at MinimumDifficulty. The exact curve is an
// Open Question left unresolved by the source material; this is the
// classic early-chain adjustment rule and is used here as the engine's one
// fixed answer to it.
func CalcDifficulty(parentTime, childTime uint64, parentDifficulty *big.Int) *big.Int {
	adjust := new(big.Int).Div(parentDifficulty, difficultyAdjustmentDivisor)
	diff := new(big.Int).Set(parentDifficulty)
	if childTime <= parentTime || childTime-parentTime < 13 {
		diff.Add(diff, adjust)
	} else {
		diff.Sub(diff, adjust)
	}
	if diff.Cmp(MinimumDifficulty) < 0 {
		diff.Set(MinimumDifficulty)
	}
	return diff
}
