package content

import (
	"errors"
	"fmt"

	"github.com/latticenet/core/hash"
)

// Complement is the erasure-coded companion of a string's content: a
// systematic (n=k+m, k) Reed-Solomon-style code over k data shards, where
// n equals the string's replication factor ρ. It can reconstruct the
// original content from any k surviving shards (data or parity).
type Complement struct {
	K, M      int
	ShardSize int
	// OriginalLen is the exact byte length of the content this complement
	// protects; shards are zero-padded to ShardSize.
	OriginalLen int
	// Parity holds the M parity shards; the K data shards are not stored
	// here (the lattice already stores the original content) but can be
	// recomputed by split(content, K) for verification.
	Parity       [][]byte
	FragmentHash []hash.Digest // one hash per fragment, data shards then parity shards, index 0..K+M-1
}

var (
	// ErrReplicationRange is returned when ρ falls outside [3,10].
	ErrReplicationRange = errors.New("content: replication factor must be in [3,10]")
	// ErrInsufficientFragments is returned when fewer than K fragments
	// survive to attempt reconstruction.
	ErrInsufficientFragments = errors.New("content: fewer than K surviving fragments")
	// ErrContentMismatch is returned when reconstructed content's hash
	// doesn't match the expected StringId-bound hash.
	ErrContentMismatch = errors.New("content: reconstructed content hash mismatch")
)

// split partitions content into k equal-size (zero-padded) shards.
func split(content []byte, k int) ([][]byte, int, int) {
	originalLen := len(content)
	shardSize := (originalLen + k - 1) / k
	if shardSize == 0 {
		shardSize = 1
	}
	shards := make([][]byte, k)
	for i := 0; i < k; i++ {
		s := make([]byte, shardSize)
		start := i * shardSize
		if start < originalLen {
			end := start + shardSize
			if end > originalLen {
				end = originalLen
			}
			copy(s, content[start:end])
		}
		shards[i] = s
	}
	return shards, shardSize, originalLen
}

// KM derives (k, m) for a replication factor ρ ∈ [3,10]: m is chosen so the
// code tolerates up to floor((ρ-1)/2) lost fragments, i.e. m = floor((ρ-1)/2)
// and k = ρ - m.
func KM(replication int) (k, m int, err error) {
	if replication < 3 || replication > 10 {
		return 0, 0, ErrReplicationRange
	}
	m = (replication - 1) / 2
	k = replication - m
	return k, m, nil
}

// Generate computes the complement for content under replication factor ρ.
func Generate(content []byte, replication int) (*Complement, error) {
	k, m, err := KM(replication)
	if err != nil {
		return nil, err
	}
	dataShards, shardSize, originalLen := split(content, k)

	gen := cauchy(m, k)
	parity := make([][]byte, m)
	for p := range parity {
		parity[p] = make([]byte, shardSize)
	}
	for byteIdx := 0; byteIdx < shardSize; byteIdx++ {
		col := make([]byte, k)
		for d := 0; d < k; d++ {
			col[d] = dataShards[d][byteIdx]
		}
		out := gen.mulVec(col)
		for p := 0; p < m; p++ {
			parity[p][byteIdx] = out[p]
		}
	}

	fragHashes := make([]hash.Digest, k+m)
	for i, s := range dataShards {
		fragHashes[i] = hash.Sum(s)
	}
	for i, s := range parity {
		fragHashes[k+i] = hash.Sum(s)
	}

	return &Complement{
		K:            k,
		M:            m,
		ShardSize:    shardSize,
		OriginalLen:  originalLen,
		Parity:       parity,
		FragmentHash: fragHashes,
	}, nil
}

// Verify recomputes parity from content and confirms it matches c's stored
// parity and the recorded per-fragment hashes.
func (c *Complement) Verify(content []byte) bool {
	fresh, err := Generate(content, c.K+c.M)
	if err != nil || fresh.K != c.K || fresh.M != c.M {
		return false
	}
	for i := range fresh.Parity {
		if !bytesEqual(fresh.Parity[i], c.Parity[i]) {
			return false
		}
	}
	if len(fresh.FragmentHash) != len(c.FragmentHash) {
		return false
	}
	for i := range fresh.FragmentHash {
		if fresh.FragmentHash[i] != c.FragmentHash[i] {
			return false
		}
	}
	return true
}

// fullEncodeMatrix returns the (k+m) x k generator matrix: the top k rows
// are the identity (systematic data fragments), the bottom m rows are the
// Cauchy parity-generating rows.
func (c *Complement) fullEncodeMatrix() matrix {
	m := newMatrix(c.K+c.M, c.K)
	for i := 0; i < c.K; i++ {
		m[i][i] = 1
	}
	v := cauchy(c.M, c.K)
	for r := 0; r < c.M; r++ {
		copy(m[c.K+r], v[r])
	}
	return m
}

// Reconstruct rebuilds the original content given any set of surviving
// fragments (keyed by fragment index 0..K+M-1, data shards first then
// parity shards), each of length c.ShardSize. Succeeds if at least K
// fragments are present.
func (c *Complement) Reconstruct(fragments map[int][]byte) ([]byte, error) {
	if len(fragments) < c.K {
		return nil, ErrInsufficientFragments
	}

	full := c.fullEncodeMatrix()

	indices := make([]int, 0, c.K)
	for idx := range fragments {
		indices = append(indices, idx)
		if len(indices) == c.K {
			break
		}
	}

	sub := newMatrix(c.K, c.K)
	for row, idx := range indices {
		copy(sub[row], full[idx])
	}
	inv, ok := sub.invert()
	if !ok {
		return nil, fmt.Errorf("content: surviving fragment set is not independent")
	}

	dataShards := make([][]byte, c.K)
	for i := range dataShards {
		dataShards[i] = make([]byte, c.ShardSize)
	}
	for byteIdx := 0; byteIdx < c.ShardSize; byteIdx++ {
		col := make([]byte, c.K)
		for row, idx := range indices {
			col[row] = fragments[idx][byteIdx]
		}
		out := inv.mulVec(col)
		for d := 0; d < c.K; d++ {
			dataShards[d][byteIdx] = out[d]
		}
	}

	joined := make([]byte, 0, c.K*c.ShardSize)
	for _, s := range dataShards {
		joined = append(joined, s...)
	}
	if c.OriginalLen < len(joined) {
		joined = joined[:c.OriginalLen]
	}
	return joined, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
