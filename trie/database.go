package trie

import (
	"github.com/ethpoc/ethpoc/common"
)

// TrieDB is the authenticated ordered map described in spec: a
// Merkle-Patricia trie layered on an OverlayDB, parameterized by opaque
// byte keys, exposing point access, ordered iteration, structural
// mutation, and root retargeting.
type TrieDB struct {
	trie    *Trie
	db      *OverlayDB
	root    common.Hash
	written map[common.Hash]struct{} // node hashes reachable as of the last Commit
}

// Init creates a TrieDB with its root set to H(rlp(empty)).
func Init(db *OverlayDB) (*TrieDB, error) {
	return SetRootTrieDB(db, common.Hash{})
}

// SetRootTrieDB opens a TrieDB at an existing root (used for branch
// switching and snapshotting). A zero hash denotes the empty trie.
func SetRootTrieDB(db *OverlayDB, root common.Hash) (*TrieDB, error) {
	t, err := New(root, db)
	if err != nil {
		return nil, err
	}
	written := make(map[common.Hash]struct{})
	if root != (common.Hash{}) && root != emptyRoot {
		written[root] = struct{}{}
	}
	return &TrieDB{trie: t, db: db, root: normalizeRoot(root), written: written}, nil
}

func normalizeRoot(root common.Hash) common.Hash {
	if root == (common.Hash{}) {
		return emptyRoot
	}
	return root
}

// Root returns the trie's current committed root hash.
func (t *TrieDB) Root() common.Hash { return t.root }

// SetRoot retargets the trie to a different root.
func (t *TrieDB) SetRoot(root common.Hash) error {
	nt, err := New(root, t.db)
	if err != nil {
		return err
	}
	t.trie = nt
	t.root = normalizeRoot(root)
	written := make(map[common.Hash]struct{})
	if t.root != emptyRoot {
		written[t.root] = struct{}{}
	}
	t.written = written
	return nil
}

// At performs a point lookup; the result is empty if the key is absent.
func (t *TrieDB) At(key []byte) ([]byte, error) {
	return t.trie.At(key)
}

// Insert performs structural insertion of key -> value. The root is not
// updated until Commit is called.
func (t *TrieDB) Insert(key, value []byte) error {
	return t.trie.Insert(key, value)
}

// Remove deletes key. The root is not updated until Commit is called.
func (t *TrieDB) Remove(key []byte) error {
	return t.trie.Remove(key)
}

// Commit hashes every dirty node bottom-up, inserts each into the overlay
// keyed by its new hash, kills every previously-written node hash no
// longer reachable from the new root, and returns the new root hash.
func (t *TrieDB) Commit() (common.Hash, error) {
	collapsed, newHashes, err := commitNode(t.trie.root, t.db)
	if err != nil {
		return common.Hash{}, err
	}
	var newRoot common.Hash
	switch c := collapsed.(type) {
	case nil:
		newRoot = emptyRoot
	case hashNode:
		newRoot = common.BytesToHash(c)
	default:
		// Single embedded value/short tree too small to have been hashed;
		// hash it explicitly so the trie always has a 256-bit root.
		enc := encodeNode(c)
		h := hashNodeBytes(enc)
		t.db.Insert(h, enc)
		newHashes[h] = struct{}{}
		newRoot = h
	}

	for h := range t.written {
		if _, ok := newHashes[h]; !ok {
			_ = t.db.Kill(h) // best-effort; absent keys are tolerated
		}
	}
	t.written = newHashes
	t.root = newRoot
	t.trie.root = hashNode(newRoot.Bytes())
	return newRoot, nil
}

// LeftOvers returns the debug-only set of overlay keys this trie no longer
// references as of the last Commit (nodes displaced but not yet killed,
// or killed-but-still-in-dirty-map entries with a surviving reference
// elsewhere). It is informational only; Commit already performs the kill.
func (t *TrieDB) LeftOvers() []common.Hash {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	var out []common.Hash
	for h := range t.db.dirty {
		if _, ok := t.written[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

// commitNode recursively hashes n's subtree, writing every shortNode/
// fullNode into db keyed by its hash, and returns the collapsed
// representation (hashNode for anything that was written, or the node
// itself for nil/valueNode) plus the full set of hashes written.
func commitNode(n node, db *OverlayDB) (node, map[common.Hash]struct{}, error) {
	hashes := make(map[common.Hash]struct{})
	collapsed, err := commitNodeInto(n, db, hashes)
	return collapsed, hashes, err
}

func commitNodeInto(n node, db *OverlayDB, hashes map[common.Hash]struct{}) (node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case valueNode:
		return n, nil
	case hashNode:
		hashes[common.BytesToHash(n)] = struct{}{}
		return n, nil
	case *shortNode:
		child, err := commitNodeInto(n.Val, db, hashes)
		if err != nil {
			return nil, err
		}
		collapsed := &shortNode{Key: n.Key, Val: child}
		enc := encodeNode(collapsed)
		h := hashNodeBytes(enc)
		db.Insert(h, enc)
		hashes[h] = struct{}{}
		return hashNode(h.Bytes()), nil
	case *fullNode:
		var collapsed fullNode
		for i := 0; i < 17; i++ {
			child, err := commitNodeInto(n.Children[i], db, hashes)
			if err != nil {
				return nil, err
			}
			collapsed.Children[i] = child
		}
		enc := encodeNode(&collapsed)
		h := hashNodeBytes(enc)
		db.Insert(h, enc)
		hashes[h] = struct{}{}
		return hashNode(h.Bytes()), nil
	default:
		return n, nil
	}
}
