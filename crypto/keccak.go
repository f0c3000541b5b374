// Package crypto provides the cryptographic primitives the engine relies
// on: the Keccak-256 hash function and secp256k1 signing/recovery.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethpoc/ethpoc/common"
)

// Keccak256 calculates the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}
