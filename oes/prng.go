package oes

import (
	"encoding/binary"

	"github.com/latticenet/core/hash"
)

// prng is a deterministic counter-mode stream built on blake3: every
// output block is H(seed || counter), so the entire evolution step is a
// pure function of its seed (spec mandate: anchor-hash seeding only, never
// a separate entropy source — see DESIGN.md OQ3).
type prng struct {
	seed    []byte
	counter uint64
}

func newPRNG(seed []byte) *prng {
	return &prng{seed: append([]byte(nil), seed...)}
}

func (p *prng) nextUint64() uint64 {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], p.counter)
	p.counter++
	d := hash.SumMulti(p.seed, ctr[:])
	return binary.BigEndian.Uint64(d[:8])
}

func (p *prng) nextFloat64() float64 {
	return float64(p.nextUint64()) / float64(^uint64(0))
}

func (p *prng) nextBytes(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], p.counter)
		p.counter++
		d := hash.SumMulti(p.seed, ctr[:])
		out = append(out, d[:]...)
	}
	return out[:n]
}

// bytesToRange maps an 8-byte big-endian value into [min, max], matching
// the original OES's seed-to-range conversion.
func bytesToRange(b []byte, min, max float64) float64 {
	v := binary.BigEndian.Uint64(b)
	return min + (float64(v)/float64(^uint64(0)))*(max-min)
}
