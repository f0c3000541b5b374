// Package ethdb defines the key/value backing store the trie and account
// layer persist to, plus an in-memory and a LevelDB-backed implementation.
package ethdb

import "errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("ethdb: key not found")

// KeyValueReader reads raw key/value pairs.
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter writes raw key/value pairs.
type KeyValueWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch accumulates writes for atomic application.
type Batch interface {
	KeyValueWriter
	ValueSize() int
	Write() error
	Reset()
}

// KeyValueStore is the persistence boundary the trie's OverlayDB, the
// account layer, and the header/receipt index all write through.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	NewBatch() Batch
	Close() error
}
