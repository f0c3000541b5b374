package crypto

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ethpoc/ethpoc/common"
)

var (
	ErrInvalidHashLength = errors.New("crypto: hash must be 32 bytes")
	ErrInvalidSigLength  = errors.New("crypto: signature must be 65 bytes [R || S || V]")
	ErrInvalidRecoveryID = errors.New("crypto: invalid recovery id")
)

// PrivateKey wraps a secp256k1 scalar.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey generates a new secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: k}, nil
}

// Bytes returns the 32-byte big-endian scalar encoding of the key.
func (p *PrivateKey) Bytes() []byte {
	b := p.key.Serialize()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// PublicKey returns the 65-byte uncompressed public key for the private key.
func (p *PrivateKey) PublicKey() []byte {
	return p.key.PubKey().SerializeUncompressed()
}

// Sign produces a 65-byte recoverable signature (R || S || V, V in {0,1})
// over a 32-byte message hash.
func Sign(hash []byte, prv *PrivateKey) ([]byte, error) {
	if len(hash) != 32 {
		return nil, ErrInvalidHashLength
	}
	sig := ecdsa.SignCompact(prv.key, hash, false)
	// SignCompact returns [recid+27 || R || S]; reshape to [R || S || V].
	if len(sig) != 65 {
		return nil, errors.New("crypto: unexpected signature length")
	}
	recID := sig[0] - 27
	out := make([]byte, 65)
	copy(out[:64], sig[1:])
	out[64] = recID
	return out, nil
}

// Ecrecover recovers the uncompressed public key (65 bytes, 0x04-prefixed)
// from a 32-byte hash and a 65-byte [R || S || V] signature, V in {0,1}.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := SigToPub(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// SigToPub recovers the uncompressed public key from hash and signature.
func SigToPub(hash, sig []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, ErrInvalidHashLength
	}
	if len(sig) != 65 {
		return nil, ErrInvalidSigLength
	}
	if sig[64] > 1 {
		return nil, ErrInvalidRecoveryID
	}
	// ecdsa.RecoverCompact expects [recid+27 || R || S].
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// PubkeyToAddress derives the Ethereum-style address from an uncompressed
// public key: the right-most 160 bits of Keccak256(pubkey[1:]).
func PubkeyToAddress(pub []byte) common.Address {
	if len(pub) != 65 || pub[0] != 0x04 {
		return common.Address{}
	}
	h := Keccak256(pub[1:])
	return common.BytesToAddress(h[12:])
}

// VerifySignature checks a signature (64 bytes, no recovery id) against an
// uncompressed public key and 32-byte message hash.
func VerifySignature(pubkey, hash, sig []byte) bool {
	if len(sig) != 64 || len(hash) != 32 || len(pubkey) != 65 || pubkey[0] != 0x04 {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	r := new(secp256k1.ModNScalar)
	s := new(secp256k1.ModNScalar)
	r.SetByteSlice(sig[:32])
	s.SetByteSlice(sig[32:64])
	signature := ecdsa.NewSignature(r, s)
	return signature.Verify(hash, pub)
}
