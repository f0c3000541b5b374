package types

import (
	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/rlp"
)

// EncodeRLP returns [tx_rlp, post_state_root, cumulative_gas], the wire
// format a block's transaction manifest embeds per entry. tx_rlp is nested
// as the transaction's own RLP list, not wrapped as an opaque byte string.
func (r *Receipt) EncodeRLP() ([]byte, error) {
	txEnc, err := r.Tx.EncodeRLP()
	if err != nil {
		return nil, err
	}
	var payload []byte
	payload = append(payload, txEnc...)
	payload = rlp.AppendBytes(payload, r.PostStateRoot.Bytes())
	payload = rlp.AppendUint64(payload, r.CumulativeGasUsed)
	return append(rlp.AppendListHeader(nil, len(payload)), payload...), nil
}

// DecodeReceiptRLP parses the wire encoding produced by EncodeRLP.
func DecodeReceiptRLP(data []byte) (*Receipt, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
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
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	r := &Receipt{Tx: tx}
	postBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	r.PostStateRoot = common.BytesToHash(postBytes)
	if r.CumulativeGasUsed, err = s.Uint64(); err != nil {
		return nil, err
	}
	return r, s.ListEnd()
}
