package crypto

import (
	"bytes"
	"testing"

	"github.com/ethpoc/ethpoc/common"
)

func TestKeccak256_KnownVector(t *testing.T) {
	// Keccak256("") is a standard test vector.
	want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	got := Keccak256Hash([]byte{}).Hex()
	if got != want {
		t.Errorf("Keccak256(\"\") = %s, want %s", got, want)
	}
}

func TestKeccak256_VariadicConcatenatesInputs(t *testing.T) {
	a := Keccak256([]byte("hello"), []byte("world"))
	b := Keccak256([]byte("helloworld"))
	if !bytes.Equal(a, b) {
		t.Error("Keccak256(a, b) should equal Keccak256(concat(a, b))")
	}
}

func TestSignAndEcrecover_RoundTrip(t *testing.T) {
	prv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hash := Keccak256([]byte("message to sign"))
	sig, err := Sign(hash, prv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length = %d, want 65", len(sig))
	}

	recovered, err := Ecrecover(hash, sig)
	if err != nil {
		t.Fatalf("Ecrecover: %v", err)
	}
	if !bytes.Equal(recovered, prv.PublicKey()) {
		t.Error("recovered public key does not match signer's")
	}

	addr := PubkeyToAddress(prv.PublicKey())
	recoveredAddr := PubkeyToAddress(recovered)
	if addr != recoveredAddr {
		t.Error("recovered address does not match signer's address")
	}
}

func TestEcrecover_RejectsWrongSizedInput(t *testing.T) {
	if _, err := Ecrecover(make([]byte, 31), make([]byte, 65)); err != ErrInvalidHashLength {
		t.Errorf("Ecrecover short hash = %v, want ErrInvalidHashLength", err)
	}
	if _, err := Ecrecover(make([]byte, 32), make([]byte, 64)); err != ErrInvalidSigLength {
		t.Errorf("Ecrecover short sig = %v, want ErrInvalidSigLength", err)
	}
	sig := make([]byte, 65)
	sig[64] = 2
	if _, err := Ecrecover(make([]byte, 32), sig); err != ErrInvalidRecoveryID {
		t.Errorf("Ecrecover bad recovery id = %v, want ErrInvalidRecoveryID", err)
	}
}

func TestVerifySignature_AcceptsValidRejectsTampered(t *testing.T) {
	prv, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hash := Keccak256([]byte("payload"))
	sig, err := Sign(hash, prv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !VerifySignature(prv.PublicKey(), hash, sig[:64]) {
		t.Error("VerifySignature rejected a valid signature")
	}

	otherHash := Keccak256([]byte("different payload"))
	if VerifySignature(prv.PublicKey(), otherHash, sig[:64]) {
		t.Error("VerifySignature accepted a signature over the wrong message")
	}
}

func TestPubkeyToAddress_RejectsMalformedKey(t *testing.T) {
	if addr := PubkeyToAddress([]byte{0x01, 0x02}); addr != (common.Address{}) {
		t.Errorf("PubkeyToAddress(malformed) = %x, want zero address", addr)
	}
}
