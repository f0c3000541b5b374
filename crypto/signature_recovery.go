// Signature recovery helpers for transaction sender recovery: compact
// (R || S || V) signature representation and low-S normalization (EIP-2).
package crypto

import (
	"errors"
	"math/big"

	"github.com/ethpoc/ethpoc/common"
)

// secp256k1N is the order of the secp256k1 curve's base point.
var secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
var secp256k1halfN = new(big.Int).Rsh(secp256k1N, 1)

var (
	ErrSigInvalidLength = errors.New("crypto: signature must be 65 bytes")
	ErrSigInvalidV      = errors.New("crypto: invalid V value")
	ErrSigInvalidR      = errors.New("crypto: R must be in [1, n-1]")
	ErrSigInvalidS      = errors.New("crypto: S must be in [1, n-1]")
	ErrSigMalleable     = errors.New("crypto: S is in upper half (malleable)")
)

// CompactSignature is a 65-byte ECDSA signature: R (32) || S (32) || V (1).
type CompactSignature struct {
	R [32]byte
	S [32]byte
	V byte
}

func ParseCompactSignature(sig []byte) (*CompactSignature, error) {
	if len(sig) != 65 {
		return nil, ErrSigInvalidLength
	}
	cs := &CompactSignature{V: sig[64]}
	copy(cs.R[:], sig[:32])
	copy(cs.S[:], sig[32:64])
	return cs, nil
}

func (cs *CompactSignature) Bytes() []byte {
	buf := make([]byte, 65)
	copy(buf[:32], cs.R[:])
	copy(buf[32:64], cs.S[:])
	buf[64] = cs.V
	return buf
}

func (cs *CompactSignature) RBigInt() *big.Int { return new(big.Int).SetBytes(cs.R[:]) }
func (cs *CompactSignature) SBigInt() *big.Int { return new(big.Int).SetBytes(cs.S[:]) }

// Validate checks that R, S are in [1, n-1], S is in the lower half of the
// curve order (non-malleable per EIP-2), and V is 0 or 1.
func (cs *CompactSignature) Validate() error {
	if cs.V > 1 {
		return ErrSigInvalidV
	}
	r, s := cs.RBigInt(), cs.SBigInt()
	if r.Sign() <= 0 || r.Cmp(secp256k1N) >= 0 {
		return ErrSigInvalidR
	}
	if s.Sign() <= 0 || s.Cmp(secp256k1N) >= 0 {
		return ErrSigInvalidS
	}
	if s.Cmp(secp256k1halfN) > 0 {
		return ErrSigMalleable
	}
	return nil
}

// NormalizeS folds S into the lower half of the curve order, flipping V,
// per EIP-2's malleability fix.
func (cs *CompactSignature) NormalizeS() {
	s := cs.SBigInt()
	if s.Cmp(secp256k1halfN) > 0 {
		s.Sub(secp256k1N, s)
		sBytes := s.Bytes()
		cs.S = [32]byte{}
		copy(cs.S[32-len(sBytes):], sBytes)
		cs.V ^= 1
	}
}

// SigRecover groups the signature-recovery operations used by transaction
// sender recovery. Stateless; safe for concurrent use.
type SigRecover struct{}

func NewSigRecover() *SigRecover { return &SigRecover{} }

// RecoverPublicKey recovers the uncompressed public key from a 32-byte
// message hash and compact signature.
func (sr *SigRecover) RecoverPublicKey(hash []byte, sig *CompactSignature) ([]byte, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return SigToPub(hash, sig.Bytes())
}

// SignatureToAddress recovers the sender address: Keccak256(pubkey[1:])[12:].
func (sr *SigRecover) SignatureToAddress(hash []byte, sig *CompactSignature) (common.Address, error) {
	pub, err := sr.RecoverPublicKey(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	return PubkeyToAddress(pub), nil
}
