// Package content implements the nucleotide chunking and erasure-coded
// complement generation described in spec §4.1 (C1 Content primitives).
//
// Grounded on original_source/crates/rope-protocols/src/erasure.rs for the
// chunk/complement shape; the GF(256) arithmetic itself follows the
// standard systematic Reed-Solomon construction (no erasure-coding library
// appears in any _examples go.mod, so this is implemented on the standard
// library per DESIGN.md).
package content

// ChunkSize is the fixed size, in bytes, of a nucleotide chunk.
const ChunkSize = 32

// Chunks splits data into fixed 32-byte nucleotide chunks. The final chunk
// is zero-padded if data is not a multiple of ChunkSize; the original
// length is returned separately so Join can recover the exact original
// bytes.
func Chunks(data []byte) (chunks [][ChunkSize]byte, originalLen int) {
	originalLen = len(data)
	n := (originalLen + ChunkSize - 1) / ChunkSize
	if n == 0 {
		n = 1 // a zero-length string still has one (all-zero) chunk
	}
	chunks = make([][ChunkSize]byte, n)
	for i := 0; i < n; i++ {
		start := i * ChunkSize
		end := start + ChunkSize
		if end > originalLen {
			end = originalLen
		}
		copy(chunks[i][:], data[start:end])
	}
	return chunks, originalLen
}

// Join reassembles chunks into the original byte slice, trimming the
// zero-padding from the final chunk according to originalLen.
func Join(chunks [][ChunkSize]byte, originalLen int) []byte {
	out := make([]byte, 0, len(chunks)*ChunkSize)
	for _, c := range chunks {
		out = append(out, c[:]...)
	}
	if originalLen < len(out) {
		out = out[:originalLen]
	}
	return out
}
