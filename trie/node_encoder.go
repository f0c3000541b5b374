package trie

import (
	"errors"

	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
)

var errInvalidNodeRLP = errors.New("trie: invalid node RLP")

// encodeNode returns the canonical RLP encoding of a node whose children
// have already been collapsed to hashNode/valueNode references (see
// commitNode in database.go). Unlike the full Yellow Paper encoding, nodes
// smaller than 32 bytes are not embedded inline in their parent — every
// shortNode/fullNode is always stored under its own hash. This trades the
// Yellow Paper's storage-size optimization for a simpler, uniform
// content-addressing scheme.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case nil:
		return []byte{0x80}
	case valueNode:
		return rlp.AppendBytes(nil, n)
	case hashNode:
		return rlp.AppendBytes(nil, n)
	case *shortNode:
		var payload []byte
		payload = rlp.AppendBytes(payload, hexToCompact(n.Key))
		payload = append(payload, encodeCollapsedChild(n.Val)...)
		return append(rlp.AppendListHeader(nil, len(payload)), payload...)
	case *fullNode:
		var payload []byte
		for i := 0; i < 16; i++ {
			payload = append(payload, encodeCollapsedChild(n.Children[i])...)
		}
		payload = append(payload, encodeCollapsedChild(n.Children[16])...)
		return append(rlp.AppendListHeader(nil, len(payload)), payload...)
	}
	return nil
}

func encodeCollapsedChild(n node) []byte {
	switch n := n.(type) {
	case nil:
		return []byte{0x80}
	case valueNode:
		return rlp.AppendBytes(nil, n)
	case hashNode:
		return rlp.AppendBytes(nil, n)
	default:
		// Not reachable post-collapse.
		return encodeNode(n)
	}
}

// hashNodeBytes computes the content hash of an already-collapsed node's
// RLP encoding.
func hashNodeBytes(encoded []byte) common.Hash {
	return crypto.Keccak256Hash(encoded)
}

// decodeNode parses the RLP encoding of a stored node back into its node
// representation. Children remain hashNode references; callers resolve
// them lazily via OverlayDB.Lookup.
func decodeNode(encoded []byte) (node, error) {
	s := rlp.NewStreamFromBytes(encoded)
	kind, _, err := s.Kind()
	if err != nil {
		return nil, err
	}
	if kind != rlp.List {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			return nil, nil
		}
		return valueNode(b), nil
	}

	size, err := s.List()
	if err != nil {
		return nil, err
	}
	var items [][]byte
	for s.HasMore() {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	_ = size

	switch len(items) {
	case 2:
		key := compactToHex(items[0])
		var val node
		if hasTerm(key) {
			val = valueNode(items[1])
		} else if len(items[1]) == 0 {
			val = nil
		} else {
			val = hashNode(items[1])
		}
		return &shortNode{Key: key, Val: val}, nil
	case 17:
		var fn fullNode
		for i := 0; i < 16; i++ {
			if len(items[i]) == 0 {
				continue
			}
			fn.Children[i] = hashNode(items[i])
		}
		if len(items[16]) > 0 {
			fn.Children[16] = valueNode(items[16])
		}
		return &fn, nil
	default:
		return nil, errInvalidNodeRLP
	}
}
