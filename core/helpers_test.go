package core

import (
	"math/big"
	"testing"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
)

func newTestKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	prv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return prv
}

func senderAddress(t *testing.T, prv *crypto.PrivateKey) common.Address {
	t.Helper()
	return crypto.PubkeyToAddress(prv.PublicKey())
}

func bigOne() *big.Int { return big.NewInt(1) }
func bigTen() *big.Int { return big.NewInt(10) }

func encodeTx(t *testing.T, tx interface{ EncodeRLP() ([]byte, error) }) []byte {
	t.Helper()
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	return enc
}
