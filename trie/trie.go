package trie

import (
	"github.com/ethpoc/ethpoc/common"
	"github.com/ethpoc/ethpoc/crypto"
	"github.com/ethpoc/ethpoc/rlp"
)

// emptyRoot is the root hash of the trie containing no keys: H(rlp("")).
// Computed at init rather than hard-coded, since a literal hex constant is
// easy to get subtly wrong (as happened in one retrieval-pack example).
var emptyRoot = crypto.Keccak256Hash(mustEncodeEmptyString())

func mustEncodeEmptyString() []byte {
	b, err := rlp.EncodeToBytes([]byte{})
	if err != nil {
		panic(err)
	}
	return b
}

// EmptyRoot returns the canonical root hash of a trie with zero keys.
func EmptyRoot() common.Hash { return emptyRoot }

// Trie is a Merkle-Patricia trie: an authenticated ordered map whose root
// hash uniquely determines its contents. It is backed by an OverlayDB;
// nodes referenced only by hash are resolved from the overlay on demand.
type Trie struct {
	root node
	db   *OverlayDB
}

// New constructs a Trie rooted at root. A zero (empty) root or
// trie.EmptyRoot() both denote the empty trie.
func New(root common.Hash, db *OverlayDB) (*Trie, error) {
	t := &Trie{db: db}
	if root != (common.Hash{}) && root != emptyRoot {
		t.root = hashNode(root.Bytes())
	}
	return t, nil
}

// resolve dereferences a hashNode by loading and decoding it from the
// overlay. Returns ErrCorruptState if the trie structure claims the node
// must exist but the overlay/backing lookup comes back empty.
func (t *Trie) resolve(n node) (node, error) {
	hn, ok := n.(hashNode)
	if !ok {
		return n, nil
	}
	h := common.BytesToHash(hn)
	enc, err := t.db.Lookup(h)
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return nil, ErrCorruptState
	}
	return decodeNode(enc)
}

// At performs a point lookup; it returns a nil slice if the key is absent.
func (t *Trie) At(key []byte) ([]byte, error) {
	v, _, err := t.get(t.root, keybytesToHex(key), 0)
	return v, err
}

func (t *Trie) get(n node, key []byte, pos int) (value []byte, newNode node, err error) {
	switch n := n.(type) {
	case nil:
		return nil, nil, nil
	case valueNode:
		return n, n, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytesEqual(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, nil
		}
		v, newVal, err := t.get(n.Val, key, pos+len(n.Key))
		if err != nil {
			return nil, n, err
		}
		n.Val = newVal
		return v, n, nil
	case *fullNode:
		child, newChild, err := t.get(n.Children[key[pos]], key, pos+1)
		if err != nil {
			return nil, n, err
		}
		n.Children[key[pos]] = newChild
		return child, n, nil
	case hashNode:
		resolved, err := t.resolve(n)
		if err != nil {
			return nil, n, err
		}
		return t.get(resolved, key, pos)
	default:
		return nil, n, nil
	}
}

// Insert performs structural insertion of key -> value.
func (t *Trie) Insert(key, value []byte) error {
	if len(value) == 0 {
		return t.Remove(key)
	}
	k := keybytesToHex(key)
	newRoot, err := t.insert(t.root, k, valueNode(value))
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) insert(n node, key []byte, value node) (node, error) {
	if len(key) == 0 {
		return value, nil
	}
	switch n := n.(type) {
	case nil:
		return &shortNode{Key: append([]byte{}, key...), Val: value}, nil

	case *shortNode:
		match := prefixLen(key, n.Key)
		if match == len(n.Key) {
			newVal, err := t.insert(n.Val, key[match:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: n.Key, Val: newVal}, nil
		}
		branch := &fullNode{}
		var err error
		if match < len(n.Key) {
			branch.Children[n.Key[match]], err = t.insert(nil, n.Key[match+1:], n.Val)
			if err != nil {
				return nil, err
			}
		}
		if match < len(key) {
			branch.Children[key[match]], err = t.insert(nil, key[match+1:], value)
			if err != nil {
				return nil, err
			}
		} else {
			branch.Children[16] = value
		}
		if match == 0 {
			return branch, nil
		}
		return &shortNode{Key: append([]byte{}, key[:match]...), Val: branch}, nil

	case *fullNode:
		cp := n.copy()
		if len(key) == 0 {
			cp.Children[16] = value
			return cp, nil
		}
		child, err := t.insert(n.Children[key[0]], key[1:], value)
		if err != nil {
			return nil, err
		}
		cp.Children[key[0]] = child
		return cp, nil

	case hashNode:
		resolved, err := t.resolve(n)
		if err != nil {
			return nil, err
		}
		return t.insert(resolved, key, value)

	default:
		return &shortNode{Key: append([]byte{}, key...), Val: value}, nil
	}
}

// Remove deletes key, collapsing extension/leaf chains as needed to
// maintain canonicality (no extension points to another extension, no
// branch carries a single child and no value).
func (t *Trie) Remove(key []byte) error {
	newRoot, _, err := t.delete(t.root, keybytesToHex(key))
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) delete(n node, key []byte) (node, bool, error) {
	switch n := n.(type) {
	case nil:
		return nil, false, nil

	case *shortNode:
		match := prefixLen(key, n.Key)
		if match < len(n.Key) {
			return n, false, nil
		}
		if match == len(key) {
			return nil, true, nil
		}
		child, removed, err := t.delete(n.Val, key[match:])
		if err != nil || !removed {
			return n, removed, err
		}
		switch child := child.(type) {
		case nil:
			return nil, true, nil
		case *shortNode:
			return &shortNode{Key: concat(n.Key, child.Key), Val: child.Val}, true, nil
		default:
			return &shortNode{Key: n.Key, Val: child}, true, nil
		}

	case *fullNode:
		if len(key) == 0 || key[0] == terminatorByte {
			if n.Children[16] == nil {
				return n, false, nil
			}
			cp := n.copy()
			cp.Children[16] = nil
			return collapseFullNode(cp), true, nil
		}
		child, removed, err := t.delete(n.Children[key[0]], key[1:])
		if err != nil || !removed {
			return n, removed, err
		}
		cp := n.copy()
		cp.Children[key[0]] = child
		return collapseFullNode(cp), true, nil

	case hashNode:
		resolved, err := t.resolve(n)
		if err != nil {
			return nil, false, err
		}
		return t.delete(resolved, key)

	default:
		return n, false, nil
	}
}

// collapseFullNode collapses a branch with exactly one remaining child (and
// no value) into a shortNode, to keep the trie canonical.
func collapseFullNode(n *fullNode) node {
	count, idx := 0, -1
	for i := 0; i < 16; i++ {
		if n.Children[i] != nil {
			count++
			idx = i
		}
	}
	if count == 0 && n.Children[16] != nil {
		return &shortNode{Key: []byte{terminatorByte}, Val: n.Children[16]}
	}
	if count == 1 && n.Children[16] == nil {
		child := n.Children[idx]
		switch child := child.(type) {
		case *shortNode:
			return &shortNode{Key: concat([]byte{byte(idx)}, child.Key), Val: child.Val}
		default:
			return &shortNode{Key: []byte{byte(idx)}, Val: child}
		}
	}
	return n
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func concat(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}
