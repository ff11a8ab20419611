// Package lattice implements the string lattice (spec §4.2, component C2):
// the append-only causal DAG of content-addressed strings, their
// complements, anchor tracking, and tombstones.
//
// Grounded on original_source/crates/rope-core/src/lattice.rs and
// string.rs for field layout and add_string ordering, and on dag/dag.go
// for the RWMutex tip-tracking shape generalized here to add anchors,
// tombstones, and the fixed lock-acquisition order spec §5 requires.
package lattice

import (
	"encoding/binary"

	"github.com/latticenet/core/hash"
	"github.com/latticenet/core/ids"
)

// String is a single node of the lattice: content, causal parents, a
// logical clock, replication factor, mutability class, and the
// cryptographic material binding it to its creator and to the OES window
// it was issued under.
type String struct {
	Content          []byte
	Clock            ids.Clock
	Parents          []ids.StringID // ordered; order is significant and hashed
	Replication      int            // ρ ∈ [3,10]
	Mutability       Mutability
	OESGeneration    uint64
	OESProof         []byte
	Signature        []byte
	CreatorPublicKey []byte
}

// canonicalEncodingVersion is the version byte written before any
// extension fields, so future fields can be appended without perturbing
// the id of strings encoded before they existed.
const canonicalEncodingVersion = 0

// Canonical returns the canonical, length-prefixed encoding of s used both
// to compute its StringID and as the message signed by its creator.
//
// Field order (spec §6): length-prefixed content, clock bytes, count-
// prefixed parent ids, big-endian replication, mutability discriminant
// byte, big-endian OES generation, then a version byte followed by any
// extension fields (here: the mutability payload, so TimeBound/
// ConditionalErasure strings with different payloads never collide).
func (s *String) Canonical() []byte {
	e := hash.NewEncoder(len(s.Content) + 64 + len(s.Parents)*hash.Size)
	e.Bytes(s.Content)
	clockBytes := s.Clock.Bytes()
	e.Raw(clockBytes[:])
	e.Count(len(s.Parents))
	for _, p := range s.Parents {
		e.Raw(p[:])
	}
	e.Uint32(uint32(s.Replication))
	e.Byte(byte(s.Mutability.Kind))
	e.Uint64(s.OESGeneration)

	e.Byte(canonicalEncodingVersion)
	var ttlBuf [8]byte
	binary.BigEndian.PutUint64(ttlBuf[:], uint64(s.Mutability.TTL))
	e.Raw(ttlBuf[:])
	e.Bytes([]byte(s.Mutability.PredicateID))

	return e.Out()
}

// ID computes the StringID: H(canonical(s)).
func (s *String) ID() ids.StringID {
	d := hash.Sum(s.Canonical())
	return ids.StringID(d)
}

// IsGenesisParent reports whether id is the all-zero genesis parent marker.
func IsGenesisParent(id ids.StringID) bool {
	return id == ids.Empty
}
