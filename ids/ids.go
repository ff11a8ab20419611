// Package ids defines the identifier and logical-clock types shared by every
// component of the string lattice.
package ids

import (
	"bytes"
	"fmt"

	luxids "github.com/luxfi/ids"
)

// StringID is the 32-byte content-addressed identifier of a string.
type StringID = luxids.ID

// NodeID identifies a validator/participant node.
type NodeID = luxids.NodeID

// Empty is the all-zero StringID, used as the genesis parent marker.
var Empty = luxids.Empty

// EmptyNodeID is the all-zero NodeID.
var EmptyNodeID = luxids.EmptyNodeID

// Clock is the logical clock carried by every string: a per-node counter
// paired with the node that advanced it. Clocks merge with
// max(counter)+1 on receipt and are ordered first by counter, then by
// NodeID for a strict tiebreak.
type Clock struct {
	Counter uint64
	Node    NodeID
}

// Compare returns -1, 0 or 1 as c orders before, equal to, or after other.
func (c Clock) Compare(other Clock) int {
	switch {
	case c.Counter < other.Counter:
		return -1
	case c.Counter > other.Counter:
		return 1
	}
	return bytes.Compare(c.Node[:], other.Node[:])
}

// Before reports whether c strictly precedes other in the total order.
func (c Clock) Before(other Clock) bool {
	return c.Compare(other) < 0
}

// Merge implements the receipt-time merge rule: max(counter)+1; no
// tie-break is applied here (ordering ties are broken by Compare). The
// local node's own id is stamped onto
// the result since the merge always happens "as observed by" that node.
func Merge(local NodeID, a, b Clock) Clock {
	counter := a.Counter
	if b.Counter > counter {
		counter = b.Counter
	}
	return Clock{Counter: counter + 1, Node: local}
}

// String implements fmt.Stringer.
func (c Clock) String() string {
	return fmt.Sprintf("%d@%s", c.Counter, c.Node)
}

// Bytes returns the canonical 40-byte encoding (8-byte big-endian counter,
// then the 32-byte node id) used by the canonical string encoding.
func (c Clock) Bytes() [40]byte {
	var out [40]byte
	putUint64(out[:8], c.Counter)
	copy(out[8:], c.Node[:])
	return out
}

func putUint64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[7-i] = byte(v)
		v >>= 8
	}
}
