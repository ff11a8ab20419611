package oes

import (
	"sync"

	"github.com/latticenet/core/ids"
)

// Tracker advances a State as anchors arrive and implements
// lattice.OESVerifier, gating string admission on OES generation claims
// without requiring the lattice package to know anything about chaos
// sources or genomes.
type Tracker struct {
	mu     sync.Mutex
	state  *State
	window uint64
	proofs map[uint64][]byte
}

// NewTracker wraps state, accepting claimed generations within window
// generations of the current one (the original's allowance for
// almost-caught-up peers).
func NewTracker(state *State, window uint64) *Tracker {
	t := &Tracker{state: state, window: window, proofs: make(map[uint64][]byte)}
	t.proofs[state.Generation] = state.Proof()
	return t
}

// OnAnchor advances the tracked state by one generation bound to
// anchorHash and records its proof, pruning any generation that has fallen
// outside the acceptance window.
func (t *Tracker) OnAnchor(anchorHash ids.StringID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Evolve(anchorHash)
	t.proofs[t.state.Generation] = t.state.Proof()

	if t.state.Generation > t.window {
		floor := t.state.Generation - t.window
		for gen := range t.proofs {
			if gen < floor {
				delete(t.proofs, gen)
			}
		}
	}
}

// Generation returns the tracker's current generation number.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Generation
}

// AcceptGeneration implements lattice.OESVerifier: a claimed generation is
// accepted if it falls within window generations of the tracker's current
// one in either direction (a peer slightly ahead or behind is still live).
func (t *Tracker) AcceptGeneration(claimed uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.state.Generation
	var diff uint64
	if claimed > cur {
		diff = claimed - cur
	} else {
		diff = cur - claimed
	}
	return diff <= t.window
}

// VerifyProof implements lattice.OESVerifier: proof must match the
// recorded digest for generation, which must still be within the
// retained window.
func (t *Tracker) VerifyProof(proof []byte, generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	want, ok := t.proofs[generation]
	if !ok {
		return false
	}
	if len(proof) != len(want) {
		return false
	}
	var diff byte
	for i := range want {
		diff |= proof[i] ^ want[i]
	}
	return diff == 0
}
