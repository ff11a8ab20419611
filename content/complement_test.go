package content

import (
	"bytes"
	"testing"
)

func TestGenerateAndReconstruct(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated for good measure")
	c, err := Generate(data, 7) // k=4, m=3
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c.K != 4 || c.M != 3 {
		t.Fatalf("unexpected k/m: %d/%d", c.K, c.M)
	}

	dataShards, shardSize, _ := split(data, c.K)
	if shardSize != c.ShardSize {
		t.Fatalf("shard size mismatch")
	}

	allFragments := map[int][]byte{}
	for i, s := range dataShards {
		allFragments[i] = s
	}
	for i, s := range c.Parity {
		allFragments[c.K+i] = s
	}

	// Drop up to floor((7-1)/2)=3 fragments and still reconstruct.
	survive := map[int][]byte{}
	kept := 0
	for idx, frag := range allFragments {
		if kept >= c.K {
			break
		}
		survive[idx] = frag
		kept++
	}

	out, err := c.Reconstruct(survive)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("reconstructed mismatch:\n got=%q\nwant=%q", out, data)
	}
}

func TestReconstructInsufficientFragments(t *testing.T) {
	data := []byte("short")
	c, err := Generate(data, 5) // k=3, m=2
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	_, err = c.Reconstruct(map[int][]byte{0: make([]byte, c.ShardSize)})
	if err != ErrInsufficientFragments {
		t.Fatalf("expected ErrInsufficientFragments, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	data := []byte("content to verify against its own complement")
	c, err := Generate(data, 6)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !c.Verify(data) {
		t.Fatalf("Verify should succeed against original content")
	}
	if c.Verify([]byte("tampered content of the same rough length!!")) {
		t.Fatalf("Verify should fail against different content")
	}
}

func TestKMReplicationRange(t *testing.T) {
	if _, _, err := KM(2); err != ErrReplicationRange {
		t.Fatalf("expected range error for ρ=2")
	}
	if _, _, err := KM(11); err != ErrReplicationRange {
		t.Fatalf("expected range error for ρ=11")
	}
	for rho := 3; rho <= 10; rho++ {
		k, m, err := KM(rho)
		if err != nil {
			t.Fatalf("KM(%d): %v", rho, err)
		}
		if k+m != rho {
			t.Fatalf("k+m != ρ for ρ=%d", rho)
		}
		tolerance := (rho - 1) / 2
		if m < tolerance {
			t.Fatalf("ρ=%d: m=%d below required tolerance %d", rho, m, tolerance)
		}
	}
}

func TestChunksAndJoinRoundTrip(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	chunks, originalLen := Chunks(data)
	if originalLen != 100 {
		t.Fatalf("originalLen = %d, want 100", originalLen)
	}
	if len(chunks) != 4 { // ceil(100/32) = 4
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	out := Join(chunks, originalLen)
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch")
	}
}
