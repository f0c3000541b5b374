package trie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethpoc/ethpoc/ethdb"
)

func newTestTrieDB(t *testing.T) *TrieDB {
	db := NewOverlayDB(ethdb.NewMemoryDB())
	td, err := Init(db)
	require.NoError(t, err)
	return td
}

func TestEmptyTrieRoot(t *testing.T) {
	td := newTestTrieDB(t)
	require.Equal(t, emptyRoot, td.Root())
}

func TestInsertAndLookup(t *testing.T) {
	td := newTestTrieDB(t)
	require.NoError(t, td.Insert([]byte("dog"), []byte("puppy")))
	require.NoError(t, td.Insert([]byte("doge"), []byte("coin")))
	require.NoError(t, td.Insert([]byte("horse"), []byte("stallion")))

	v, err := td.At([]byte("dog"))
	require.NoError(t, err)
	require.Equal(t, []byte("puppy"), v)

	v, err = td.At([]byte("doge"))
	require.NoError(t, err)
	require.Equal(t, []byte("coin"), v)

	v, err = td.At([]byte("nonexistent"))
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestCommitProducesStableRoot(t *testing.T) {
	db := NewOverlayDB(ethdb.NewMemoryDB())
	td1, _ := Init(db)
	require.NoError(t, td1.Insert([]byte("dog"), []byte("puppy")))
	require.NoError(t, td1.Insert([]byte("doge"), []byte("coin")))
	require.NoError(t, td1.Insert([]byte("horse"), []byte("stallion")))
	root1, err := td1.Commit()
	require.NoError(t, err)

	db2 := NewOverlayDB(ethdb.NewMemoryDB())
	td2, _ := Init(db2)
	require.NoError(t, td2.Insert([]byte("horse"), []byte("stallion")))
	require.NoError(t, td2.Insert([]byte("dog"), []byte("puppy")))
	require.NoError(t, td2.Insert([]byte("doge"), []byte("coin")))
	root2, err := td2.Commit()
	require.NoError(t, err)

	require.Equal(t, root1, root2, "insertion order must not affect the root hash")
}

func TestRemoveCollapsesChain(t *testing.T) {
	td := newTestTrieDB(t)
	require.NoError(t, td.Insert([]byte("dog"), []byte("puppy")))
	require.NoError(t, td.Insert([]byte("doge"), []byte("coin")))
	_, err := td.Commit()
	require.NoError(t, err)

	require.NoError(t, td.Remove([]byte("doge")))
	root, err := td.Commit()
	require.NoError(t, err)

	fresh := NewOverlayDB(ethdb.NewMemoryDB())
	tdFresh, _ := Init(fresh)
	require.NoError(t, tdFresh.Insert([]byte("dog"), []byte("puppy")))
	freshRoot, err := tdFresh.Commit()
	require.NoError(t, err)

	require.Equal(t, freshRoot, root)
}

func TestPersistAndReopen(t *testing.T) {
	backing := ethdb.NewMemoryDB()
	db := NewOverlayDB(backing)
	td, _ := Init(db)
	require.NoError(t, td.Insert([]byte("dog"), []byte("puppy")))
	root, err := td.Commit()
	require.NoError(t, err)

	td2, err := SetRootTrieDB(db, root)
	require.NoError(t, err)
	v, err := td2.At([]byte("dog"))
	require.NoError(t, err)
	require.Equal(t, []byte("puppy"), v)
}

func TestIteratorOrder(t *testing.T) {
	td := newTestTrieDB(t)
	require.NoError(t, td.Insert([]byte("b"), []byte("2")))
	require.NoError(t, td.Insert([]byte("a"), []byte("1")))
	require.NoError(t, td.Insert([]byte("c"), []byte("3")))

	it, err := NewIterator(td)
	require.NoError(t, err)
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestCorruptStateOnMissingNode(t *testing.T) {
	backing := ethdb.NewMemoryDB()
	db := NewOverlayDB(backing)
	td, _ := Init(db)
	require.NoError(t, td.Insert([]byte("dog"), []byte("puppy")))
	root, err := td.Commit()
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	// Simulate a corrupt backing store by deleting the root node.
	require.NoError(t, backing.Delete(root.Bytes()))

	tdBroken, err := SetRootTrieDB(db, root)
	require.NoError(t, err)
	_, err = tdBroken.At([]byte("dog"))
	require.ErrorIs(t, err, ErrCorruptState)
}
