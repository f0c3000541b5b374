package types

import (
	"errors"
	"math/big"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
)

var ErrInvalidSender = errors.New("types: could not recover sender")

// Transaction is the legacy (pre-EIP-2718) wire format:
// [nonce, gasPrice, gasLimit, to, value, data, v, r, s].
type Transaction struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       *common.Address // nil means contract creation
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// SigningHash returns the hash that Sign/Sender operate over: the RLP
// encoding of the transaction with V, R, S zeroed.
func (tx *Transaction) SigningHash() common.Hash {
	unsigned := *tx
	unsigned.V, unsigned.R, unsigned.S = nil, nil, nil
	enc, err := unsigned.EncodeRLP()
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// Hash returns the canonical transaction hash: H(rlp(tx)).
func (tx *Transaction) Hash() common.Hash {
	enc, err := tx.EncodeRLP()
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// Sign signs the transaction with prv, setting V, R, S. V is the raw
// recovery id (0 or 1); this engine does not implement EIP-155 replay
// protection (no chain ID is mixed into the signature), matching this
// spec's single-chain scope.
func (tx *Transaction) Sign(prv *crypto.PrivateKey) error {
	h := tx.SigningHash()
	sig, err := crypto.Sign(h.Bytes(), prv)
	if err != nil {
		return err
	}
	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = new(big.Int).SetUint64(uint64(sig[64]))
	return nil
}

// Sender recovers the sending address from the transaction's signature.
func (tx *Transaction) Sender() (common.Address, error) {
	if tx.R == nil || tx.S == nil || tx.V == nil {
		return common.Address{}, ErrInvalidSender
	}
	sig := make([]byte, 65)
	rb, sb := tx.R.Bytes(), tx.S.Bytes()
	copy(sig[32-len(rb):32], rb)
	copy(sig[64-len(sb):64], sb)
	v := tx.V.Uint64()
	if v > 1 {
		return common.Address{}, ErrInvalidSender
	}
	sig[64] = byte(v)

	h := tx.SigningHash()
	pub, err := crypto.Ecrecover(h.Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(pub), nil
}

// IsContractCreation reports whether the transaction's To field is unset.
func (tx *Transaction) IsContractCreation() bool {
	return tx.To == nil
}
