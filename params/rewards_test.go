package params

import (
	"math/big"
	"testing"
)

func TestUncleInclusionBonus_IsOneEighth(t *testing.T) {
	want := new(big.Int).Div(BlockReward, big.NewInt(8))
	if UncleInclusionBonus().Cmp(want) != 0 {
		t.Errorf("UncleInclusionBonus() = %s, want %s", UncleInclusionBonus(), want)
	}
}

func TestUncleReward_IsThreeQuarters(t *testing.T) {
	want := new(big.Int).Div(new(big.Int).Mul(BlockReward, big.NewInt(3)), big.NewInt(4))
	if UncleReward().Cmp(want) != 0 {
		t.Errorf("UncleReward() = %s, want %s", UncleReward(), want)
	}
}

func TestRewards_DoNotAliasBlockReward(t *testing.T) {
	before := new(big.Int).Set(BlockReward)
	UncleInclusionBonus().Add(UncleInclusionBonus(), big.NewInt(1))
	UncleReward().Add(UncleReward(), big.NewInt(1))
	if BlockReward.Cmp(before) != 0 {
		t.Error("BlockReward was mutated by a derived reward calculation")
	}
}
