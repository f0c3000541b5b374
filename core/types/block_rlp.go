package types

import "github.com/ethpoc/ethpoc/rlp"

// EncodeRLP returns the canonical wire encoding: [header, tx_list, uncle_list].
func (b *Block) EncodeRLP() ([]byte, error) {
	headerEnc, err := rlp.EncodeToBytes(b.header)
	if err != nil {
		return nil, err
	}

	var txsPayload []byte
	for _, r := range b.body.Receipts {
		enc, err := r.EncodeRLP()
		if err != nil {
			return nil, err
		}
		txsPayload = append(txsPayload, enc...)
	}

	var unclesPayload []byte
	for _, u := range b.body.Uncles {
		enc, err := rlp.EncodeToBytes(u)
		if err != nil {
			return nil, err
		}
		unclesPayload = append(unclesPayload, enc...)
	}

	var payload []byte
	payload = append(payload, headerEnc...)
	payload = append(payload, rlp.WrapList(txsPayload)...)
	payload = append(payload, rlp.WrapList(unclesPayload)...)
	return rlp.WrapList(payload), nil
}

// DecodeBlockRLP parses the wire encoding produced by EncodeRLP.
func DecodeBlockRLP(data []byte) (*Block, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}

	header := &Header{}
	if err := rlp.DecodeStream(s, header); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var receipts []*Receipt
	for s.HasMore() {
		enc, err := s.Raw()
		if err != nil {
			return nil, err
		}
		r, err := DecodeReceiptRLP(enc)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var uncles []*Header
	for s.HasMore() {
		u := &Header{}
		if err := rlp.DecodeStream(s, u); err != nil {
			return nil, err
		}
		uncles = append(uncles, u)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return NewBlock(header, &Body{Receipts: receipts, Uncles: uncles}), nil
}
