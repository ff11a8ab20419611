package hash

import "encoding/binary"

// Encoder builds the canonical, length-prefixed byte representation of a
// structure before it is hashed or signed. Every variable-length field is
// written with its length prefix so that concatenation never creates an
// ambiguous boundary between two adjacent fields (e.g. "ab"+"c" cannot be
// confused with "a"+"bc").
//
// Adapted from utils/wrappers.Packer: same accumulate-into-a-slice shape,
// specialized for length-prefixed canonical encoding rather than generic
// wire packing.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with buf pre-sized to size bytes.
func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// Byte appends a single byte.
func (e *Encoder) Byte(b byte) *Encoder {
	e.buf = append(e.buf, b)
	return e
}

// Uint32 appends v as 4 big-endian bytes.
func (e *Encoder) Uint32(v uint32) *Encoder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

// Uint64 appends v as 8 big-endian bytes.
func (e *Encoder) Uint64(v uint64) *Encoder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

// Raw appends b verbatim, with no length prefix. Only safe for fixed-size
// fields whose length is already implied by the schema (e.g. a 32-byte id).
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// Bytes appends b prefixed by its length as a uint32, so the reader (or the
// hash function) can unambiguously recover the field boundary.
func (e *Encoder) Bytes(b []byte) *Encoder {
	e.Uint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
	return e
}

// Count appends n as a uint32 count prefix, to be followed by n fixed-size
// elements (e.g. a count-prefixed list of StringIDs).
func (e *Encoder) Count(n int) *Encoder {
	return e.Uint32(uint32(n))
}

// Out returns the accumulated canonical bytes.
func (e *Encoder) Out() []byte {
	return e.buf
}
