package types

import (
	"math/big"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/rlp"
)

// EncodeRLP returns the canonical wire encoding of the transaction. This is
// hand-rolled rather than routed through the generic reflection-based
// encoder because the "To" field needs to distinguish a contract-creation
// transaction (nil, encodes as the empty string) from a call to the zero
// address — a distinction reflect.Ptr's generic nil handling can produce
// on encode but cannot reliably reproduce on decode (a decoded empty
// string for a fixed-size array field comes back as a zeroed array, not a
// nil pointer).
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	var payload []byte
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = append(payload, encodeBigIntField(tx.GasPrice)...)
	payload = rlp.AppendUint64(payload, tx.GasLimit)
	if tx.To == nil {
		payload = append(payload, 0x80)
	} else {
		payload = rlp.AppendBytes(payload, tx.To.Bytes())
	}
	payload = append(payload, encodeBigIntField(tx.Value)...)
	payload = rlp.AppendBytes(payload, tx.Data)
	payload = append(payload, encodeBigIntField(tx.V)...)
	payload = append(payload, encodeBigIntField(tx.R)...)
	payload = append(payload, encodeBigIntField(tx.S)...)
	return append(rlp.AppendListHeader(nil, len(payload)), payload...), nil
}

func encodeBigIntField(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return []byte{0x80}
	}
	return rlp.AppendBytes(nil, v.Bytes())
}

// DecodeTransactionRLP parses the wire encoding produced by EncodeRLP.
func DecodeTransactionRLP(data []byte) (*Transaction, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	tx := &Transaction{}
	var err error
	if tx.Nonce, err = s.Uint64(); err != nil {
		return nil, err
	}
	if tx.GasPrice, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.GasLimit, err = s.Uint64(); err != nil {
		return nil, err
	}
	toBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(toBytes) > 0 {
		addr := common.BytesToAddress(toBytes)
		tx.To = &addr
	}
	if tx.Value, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.Data, err = s.Bytes(); err != nil {
		return nil, err
	}
	if tx.V, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.R, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.S, err = s.BigInt(); err != nil {
		return nil, err
	}
	return tx, s.ListEnd()
}
