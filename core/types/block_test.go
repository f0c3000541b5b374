package types

import (
	"math/big"
	"testing"

	"github.com/ethpoc/ethpoc/common"
)

func testReceipt(nonce uint64) *Receipt {
	to := common.HexToAddress("0x01")
	tx := &Transaction{
		Nonce: nonce, GasPrice: big.NewInt(1), GasLimit: 21000,
		To: &to, Value: big.NewInt(1),
		V: big.NewInt(0), R: big.NewInt(0), S: big.NewInt(0),
	}
	return NewReceipt(tx, common.HexToHash("0xaa"), 21000*(nonce+1))
}

func TestBlock_RLPRoundTrip(t *testing.T) {
	header := &Header{
		ParentHash: common.HexToHash("0x01"), Coinbase: common.HexToAddress("0x02"),
		Difficulty: big.NewInt(131072), Time: 100, Number: big.NewInt(1),
		MinGasPrice: big.NewInt(1), GasLimit: 1000000, GasUsed: 42000,
	}
	uncle := &Header{
		ParentHash: common.HexToHash("0x00"), Difficulty: big.NewInt(131072),
		Time: 99, Number: big.NewInt(1), MinGasPrice: big.NewInt(1),
	}
	body := &Body{Receipts: []*Receipt{testReceipt(0), testReceipt(1)}, Uncles: []*Header{uncle}}
	block := NewBlock(header, body)

	enc, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	decoded, err := DecodeBlockRLP(enc)
	if err != nil {
		t.Fatalf("DecodeBlockRLP: %v", err)
	}

	if decoded.Header().Hash() != block.Header().Hash() {
		t.Error("decoded header hash mismatch")
	}
	if len(decoded.Receipts()) != 2 {
		t.Fatalf("Receipts() len = %d, want 2", len(decoded.Receipts()))
	}
	if decoded.Receipts()[1].Tx.Nonce != 1 {
		t.Errorf("second receipt Tx.Nonce = %d, want 1", decoded.Receipts()[1].Tx.Nonce)
	}
	if len(decoded.Uncles()) != 1 {
		t.Fatalf("Uncles() len = %d, want 1", len(decoded.Uncles()))
	}
	if decoded.GasUsed() != 42000 {
		t.Errorf("GasUsed() = %d, want 42000", decoded.GasUsed())
	}
}

func TestBlock_EmptyBodyRoundTrip(t *testing.T) {
	header := &Header{Difficulty: big.NewInt(131072), Number: big.NewInt(0), MinGasPrice: big.NewInt(1)}
	block := NewBlock(header, nil)

	enc, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	decoded, err := DecodeBlockRLP(enc)
	if err != nil {
		t.Fatalf("DecodeBlockRLP: %v", err)
	}
	if len(decoded.Receipts()) != 0 || len(decoded.Uncles()) != 0 {
		t.Error("expected empty receipts and uncles")
	}
}

func TestBlock_TransactionsExtractsFromReceipts(t *testing.T) {
	header := &Header{Difficulty: big.NewInt(1), Number: big.NewInt(0), MinGasPrice: big.NewInt(1)}
	body := &Body{Receipts: []*Receipt{testReceipt(0), testReceipt(1)}}
	block := NewBlock(header, body)

	txs := block.Transactions()
	if len(txs) != 2 || txs[0].Nonce != 0 || txs[1].Nonce != 1 {
		t.Errorf("Transactions() = %+v", txs)
	}
}

func TestBlock_HeaderReturnsCopyNotAlias(t *testing.T) {
	header := &Header{Difficulty: big.NewInt(5), Number: big.NewInt(1), MinGasPrice: big.NewInt(1)}
	block := NewBlock(header, nil)

	h := block.Header()
	h.Difficulty.Add(h.Difficulty, big.NewInt(100))
	if block.Difficulty().Cmp(big.NewInt(5)) != 0 {
		t.Error("mutating Header()'s result affected the block")
	}
}
