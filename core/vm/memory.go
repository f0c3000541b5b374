package vm

import "github.com/holiman/uint256"

// Memory is the EVM's byte-addressable, word-aligned, implicitly
// zero-extended memory.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Set copies value into memory at the given offset. The caller must have
// already grown memory to cover [offset, offset+size) via Resize.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 32-byte word at the given offset, big-endian.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	clear(m.store[offset : offset+32])
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Resize grows memory to cover at least size bytes; size is expected to
// already be rounded up to a 32-byte word boundary by the caller's gas
// computation. Memory never shrinks.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Get returns a copy of memory at [offset, offset+size).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// Len returns the current length of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Words returns the current memory size in 32-byte words.
func (m *Memory) Words() uint64 { return uint64(len(m.store)) / 32 }

// WordCount rounds a byte size up to a whole number of 32-byte words.
func WordCount(size uint64) uint64 {
	return (size + 31) / 32
}
