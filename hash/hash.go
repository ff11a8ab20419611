// Package hash provides the single fixed 32-byte cryptographic hash used
// everywhere in the lattice (string ids, testimony ids, merkle paths, cache
// keys) along with the canonical, length-prefixed encoder that every hashed
// or signed structure is built from.
//
// Grounded on original_source/crates/rope-core/src/string.rs (canonical
// field order) and utils/wrappers.Packer (length-prefixed byte packing).
package hash

import (
	"github.com/zeebo/blake3"
)

// Size is the output size, in bytes, of the fixed hash function.
const Size = 32

// Digest is a 32-byte hash output.
type Digest [Size]byte

// Sum hashes data with the module-wide fixed hash function.
func Sum(data []byte) Digest {
	var d Digest
	sum := blake3.Sum256(data)
	copy(d[:], sum[:])
	return d
}

// SumMulti hashes the concatenation of every part as a single message.
// Callers MUST use an Encoder (canon.go) to length-prefix variable-length parts
// before calling this — concatenating raw, un-prefixed parts can produce
// colliding inputs for different logical structures.
func SumMulti(parts ...[]byte) Digest {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p) //nolint:errcheck // hash.Hash.Write never errors
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// IsZero reports whether d is the all-zero digest (used for the genesis
// parent marker and similar sentinel values).
func (d Digest) IsZero() bool {
	return d == Digest{}
}
