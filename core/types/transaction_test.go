package types

import (
	"math/big"
	"testing"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
)

func newTestTx(to *common.Address) *Transaction {
	return &Transaction{
		Nonce:    7,
		GasPrice: big.NewInt(1),
		GasLimit: 21000,
		To:       to,
		Value:    big.NewInt(1000),
		Data:     []byte{0x01, 0x02, 0x03},
	}
}

func TestTransaction_RLPRoundTrip(t *testing.T) {
	to := common.HexToAddress("0xaabbcc")
	tx := newTestTx(&to)
	tx.V, tx.R, tx.S = big.NewInt(1), big.NewInt(123), big.NewInt(456)

	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	decoded, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatalf("DecodeTransactionRLP: %v", err)
	}
	if decoded.Nonce != tx.Nonce || decoded.GasLimit != tx.GasLimit {
		t.Errorf("Nonce/GasLimit mismatch: %+v", decoded)
	}
	if decoded.To == nil || *decoded.To != *tx.To {
		t.Errorf("To mismatch: %v, want %v", decoded.To, tx.To)
	}
	if decoded.Value.Cmp(tx.Value) != 0 {
		t.Errorf("Value = %s, want %s", decoded.Value, tx.Value)
	}
	if decoded.V.Cmp(tx.V) != 0 || decoded.R.Cmp(tx.R) != 0 || decoded.S.Cmp(tx.S) != 0 {
		t.Errorf("signature fields mismatch")
	}
}

func TestTransaction_ContractCreationRoundTrip(t *testing.T) {
	tx := newTestTx(nil)
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	decoded, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatalf("DecodeTransactionRLP: %v", err)
	}
	if decoded.To != nil {
		t.Errorf("To = %v, want nil (contract creation)", decoded.To)
	}
	if !decoded.IsContractCreation() {
		t.Error("IsContractCreation should be true for nil To")
	}
}

func TestTransaction_SignAndRecoverSender(t *testing.T) {
	prv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	to := common.HexToAddress("0x01")
	tx := newTestTx(&to)

	if err := tx.Sign(prv); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	addr, err := tx.Sender()
	if err != nil {
		t.Fatalf("Sender: %v", err)
	}
	want := crypto.PubkeyToAddress(prv.PublicKey())
	if addr != want {
		t.Errorf("Sender() = %s, want %s", addr, want)
	}
}

func TestTransaction_SenderWithoutSignatureFails(t *testing.T) {
	to := common.HexToAddress("0x01")
	tx := newTestTx(&to)
	if _, err := tx.Sender(); err != ErrInvalidSender {
		t.Errorf("Sender() on unsigned tx = %v, want ErrInvalidSender", err)
	}
}

func TestTransaction_HashDependsOnSignature(t *testing.T) {
	to := common.HexToAddress("0x01")
	tx1 := newTestTx(&to)
	tx2 := newTestTx(&to)
	tx2.V, tx2.R, tx2.S = big.NewInt(1), big.NewInt(2), big.NewInt(3)

	if tx1.Hash() == tx2.Hash() {
		t.Fatal("Hash should differ when signature fields differ")
	}
	if tx1.SigningHash() != tx2.SigningHash() {
		t.Fatal("SigningHash should ignore signature fields")
	}
}
