package params

import "math/big"

// BlockReward is the base reward paid to a block's coinbase, in wei-like
// base units: 1500 * 10^15.
var BlockReward = new(big.Int).Mul(big.NewInt(1500), new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil))

// UncleInclusionBonus is paid to the including block's coinbase per uncle
// referenced: BlockReward / 8.
func UncleInclusionBonus() *big.Int {
	return new(big.Int).Div(BlockReward, big.NewInt(8))
}

// UncleReward is paid to an uncle's own coinbase: BlockReward * 3 / 4.
func UncleReward() *big.Int {
	r := new(big.Int).Mul(BlockReward, big.NewInt(3))
	return r.Div(r, big.NewInt(4))
}
