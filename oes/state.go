// Package oes implements Organic Encryption State: a chaos-derived,
// anchor-bound evolving key genome. Every accepted anchor advances four
// coupled deterministic chaos sources (a Lorenz attractor, a toroidal
// Game-of-Life grid, a Mandelbrot orbit walk, and a discrete quantum walk)
// whose combined state mutates a 2048-bit genome; post-quantum key material
// is then derived from that genome via ringtail.KeyGen.
//
// Determinism is anchored solely in the anchor's own hash (OQ3): there is
// no independent entropy source, so any two nodes observing the same
// anchor sequence converge on byte-identical OES state without exchanging
// anything beyond the lattice itself.
//
// Grounded on original_source/crates/rope-crypto/src/oes.rs.
package oes

import (
	"github.com/latticenet/core/hash"
	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/ringtail"
)

// DefaultMutationRate is the genome bit-flip probability applied on top of
// the Lorenz-derived cellular mutation rate each generation.
const DefaultMutationRate = 0.005

// State is one generation of the organic encryption state machine.
type State struct {
	Generation  uint64
	Genome      Genome
	Lorenz      LorenzState
	Cellular    CellularGrid
	Mandelbrot  MandelbrotState
	QuantumWalk QuantumWalkState
	LastAnchor  ids.StringID
}

// Genesis derives the generation-0 state deterministically from seed (the
// lattice's genesis string id, by convention).
func Genesis(seed []byte) *State {
	return &State{
		Generation:  0,
		Genome:      genomeFromSeed(hash.SumMulti(seed, []byte("genome"))[:]),
		Lorenz:      lorenzFromSeed(hash.SumMulti(seed, []byte("lorenz"))[:]),
		Cellular:    cellularFromSeed(hash.SumMulti(seed, []byte("cellular"))[:]),
		Mandelbrot:  mandelbrotFromSeed(hash.SumMulti(seed, []byte("mandelbrot"))[:]),
		QuantumWalk: quantumWalkFromSeed(hash.SumMulti(seed, []byte("quantumwalk"))[:]),
	}
}

// Evolve advances the state by one generation, bound to anchorHash. All
// sub-states are updated in a fixed order so the result is a pure function
// of (previous state, anchorHash).
func (s *State) Evolve(anchorHash ids.StringID) {
	rng := newPRNG(anchorHash[:])

	s.Lorenz.Evolve(0.01)
	s.Cellular.Evolve(rng, s.Lorenz.MutationRate())
	s.Mandelbrot.Step()
	s.QuantumWalk.Step(s.Cellular.Density())
	s.Genome.Mutate(rng, DefaultMutationRate)

	s.Generation++
	s.LastAnchor = anchorHash
}

// Proof returns a canonical digest binding this generation's full state,
// suitable for a remote party to verify without recomputing the chaos
// trajectory itself (they must already hold the same State to do so; Proof
// exists so a claimed generation/state pair can be checked for equality
// against a locally-held copy).
func (s *State) Proof() []byte {
	cellHash := s.Cellular.Hash()
	mandelBytes := s.Mandelbrot.Bytes()
	qwBytes := s.QuantumWalk.Bytes()

	e := hash.NewEncoder(8 + GenomeSize + hash.Size + len(mandelBytes) + len(qwBytes) + hash.Size)
	e.Uint64(s.Generation)
	e.Raw(s.Genome[:])
	e.Raw(cellHash[:])
	e.Raw(mandelBytes[:])
	e.Raw(qwBytes)
	e.Raw(s.LastAnchor[:])
	d := hash.Sum(e.Out())
	return d[:]
}

// VerifyProof reports whether proof matches this state's current digest.
func (s *State) VerifyProof(proof []byte) bool {
	mine := s.Proof()
	if len(proof) != len(mine) {
		return false
	}
	var diff byte
	for i := range mine {
		diff |= proof[i] ^ mine[i]
	}
	return diff == 0
}

// DeriveKey derives a post-quantum key pair from the current genome via
// ringtail.KeyGen, per the recorded decision to seed PQ key material from
// the evolving genome rather than a second independent key-generation
// input.
func (s *State) DeriveKey() (priv, pub []byte, err error) {
	return ringtail.KeyGen(s.Genome[:])
}
