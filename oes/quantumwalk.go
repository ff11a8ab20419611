package oes

import "math"

// QuantumWalkSize is the number of discrete positions in the walk's cyclic
// position space.
const QuantumWalkSize = 8

// QuantumWalkState holds the complex amplitude at each position of a
// discrete-time quantum walk on a cycle, grounded on the quantum-walk chaos
// source in original_source/crates/rope-crypto/src/oes.rs. Amplitudes are
// stored as (real, imag) pairs rather than complex128 so the state can be
// hashed and re-derived deterministically without floating point library
// differences creeping into the canonical encoding.
type QuantumWalkState struct {
	Re, Im [QuantumWalkSize]float64
}

func quantumWalkFromSeed(seed []byte) QuantumWalkState {
	var s QuantumWalkState
	rng := newPRNG(seed)
	norm := 1.0 / math.Sqrt(QuantumWalkSize)
	for i := 0; i < QuantumWalkSize; i++ {
		phase := rng.nextFloat64() * 2 * math.Pi
		s.Re[i] = norm * math.Cos(phase)
		s.Im[i] = norm * math.Sin(phase)
	}
	return s
}

// Step applies one coined-walk transfer step: a Hadamard-like mix of each
// position's two neighbors on the cycle, followed by a bias rotation
// derived from cellularDensity (the entangling link between the cellular
// automaton and the quantum-walk chaos sources that the original design
// calls for), then renormalizes so the state stays a valid superposition.
func (s *QuantumWalkState) Step(cellularDensity float64) {
	var nre, nim [QuantumWalkSize]float64
	inv := 1.0 / math.Sqrt2
	for i := 0; i < QuantumWalkSize; i++ {
		left := (i - 1 + QuantumWalkSize) % QuantumWalkSize
		right := (i + 1) % QuantumWalkSize
		nre[i] = inv * (s.Re[left] + s.Re[right])
		nim[i] = inv * (s.Im[left] + s.Im[right])
	}

	theta := cellularDensity * math.Pi
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	var sumSq float64
	for i := 0; i < QuantumWalkSize; i++ {
		re := nre[i]*cosT - nim[i]*sinT
		im := nre[i]*sinT + nim[i]*cosT
		nre[i], nim[i] = re, im
		sumSq += re*re + im*im
	}

	norm := math.Sqrt(sumSq)
	if norm == 0 {
		norm = 1
	}
	for i := 0; i < QuantumWalkSize; i++ {
		s.Re[i] = nre[i] / norm
		s.Im[i] = nim[i] / norm
	}
}

// Bytes returns a canonical encoding of the amplitude vector for mixing
// into the generation's proof.
func (s QuantumWalkState) Bytes() []byte {
	out := make([]byte, 0, QuantumWalkSize*16)
	var tmp [8]byte
	for i := 0; i < QuantumWalkSize; i++ {
		putFloat64(tmp[:], s.Re[i])
		out = append(out, tmp[:]...)
		putFloat64(tmp[:], s.Im[i])
		out = append(out, tmp[:]...)
	}
	return out
}
