package types

import (
	"math/big"
	"sync/atomic"

	"github.com/ethpoc/ethpoc/common"
)

// Body holds a block's transaction manifest and uncle (ommer) headers. The
// wire format of a block's transaction list is not the bare transactions but
// [tx_rlp, post_state_root, cumulative_gas] triples per entry — i.e. the
// receipts produced by executing them — so Receipts, not Transactions, is
// the field that round-trips through RLP.
type Body struct {
	Receipts []*Receipt
	Uncles   []*Header
}

// Block pairs a Header with its Body. The header is copied on construction
// and on every read so a caller cannot mutate the block's identity out from
// under its cached hash.
type Block struct {
	header *Header
	body   Body

	hash atomic.Pointer[common.Hash]
}

// NewBlock creates a block from a header and body. A nil body is treated as
// an empty body (no transactions, no uncles).
func NewBlock(header *Header, body *Body) *Block {
	b := &Block{header: header.Copy()}
	if body != nil {
		b.body.Receipts = append([]*Receipt{}, body.Receipts...)
		for _, uncle := range body.Uncles {
			b.body.Uncles = append(b.body.Uncles, uncle.Copy())
		}
	}
	return b
}

// Header returns a copy of the block header.
func (b *Block) Header() *Header { return b.header.Copy() }

// Body returns the block's transaction manifest and uncles.
func (b *Block) Body() *Body {
	return &Body{Receipts: b.body.Receipts, Uncles: b.body.Uncles}
}

func (b *Block) Receipts() []*Receipt { return b.body.Receipts }
func (b *Block) Uncles() []*Header    { return b.body.Uncles }

// Transactions extracts the bare transactions from the block's receipt
// manifest, in order.
func (b *Block) Transactions() []*Transaction {
	txs := make([]*Transaction, len(b.body.Receipts))
	for i, r := range b.body.Receipts {
		txs[i] = r.Tx
	}
	return txs
}

func (b *Block) Number() *big.Int {
	if b.header.Number == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.Number)
}

func (b *Block) NumberU64() uint64 {
	if b.header.Number == nil {
		return 0
	}
	return b.header.Number.Uint64()
}

func (b *Block) GasLimit() uint64          { return b.header.GasLimit }
func (b *Block) GasUsed() uint64           { return b.header.GasUsed }
func (b *Block) Time() uint64              { return b.header.Time }
func (b *Block) ParentHash() common.Hash   { return b.header.ParentHash }
func (b *Block) TxHash() common.Hash       { return b.header.TxHash }
func (b *Block) UncleHash() common.Hash    { return b.header.UncleHash }
func (b *Block) Root() common.Hash         { return b.header.Root }
func (b *Block) Coinbase() common.Address  { return b.header.Coinbase }
func (b *Block) Nonce() common.BlockNonce  { return b.header.Nonce }
func (b *Block) Extra() []byte             { return b.header.Extra }

func (b *Block) Difficulty() *big.Int {
	if b.header.Difficulty == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.Difficulty)
}

func (b *Block) MinGasPrice() *big.Int {
	if b.header.MinGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.header.MinGasPrice)
}

// Hash returns the Keccak-256 hash of the block's header, cached after the
// first call.
func (b *Block) Hash() common.Hash {
	if cached := b.hash.Load(); cached != nil {
		return *cached
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}
