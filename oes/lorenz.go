package oes

import "math"

// Lorenz attractor constants, matching
// original_source/crates/rope-crypto/src/oes.rs.
const (
	lorenzSigma = 10.0
	lorenzRho   = 28.0
	lorenzBeta  = 8.0 / 3.0
)

// LorenzState is one point along the chaotic Lorenz attractor trajectory.
type LorenzState struct {
	X, Y, Z float64
}

// lorenzFromSeed maps a seed deterministically into the attractor's basin,
// using the same seed-to-range conversion as the original (each coordinate
// drawn from successive PRNG output: X and Y mapped into [-20, 20], Z into
// [0, 40]).
func lorenzFromSeed(seed []byte) LorenzState {
	rng := newPRNG(seed)
	return LorenzState{
		X: bytesToRange(rng.nextBytes(8), -20, 20),
		Y: bytesToRange(rng.nextBytes(8), -20, 20),
		Z: bytesToRange(rng.nextBytes(8), 0, 40),
	}
}

// Evolve advances the state by one explicit-Euler step of size dt along the
// Lorenz ODEs. dx/dt = sigma(y-x); dy/dt = x(rho-z)-y; dz/dt = xy - beta*z.
func (s *LorenzState) Evolve(dt float64) {
	dx := lorenzSigma * (s.Y - s.X)
	dy := s.X*(lorenzRho-s.Z) - s.Y
	dz := s.X*s.Y - lorenzBeta*s.Z

	s.X += dx * dt
	s.Y += dy * dt
	s.Z += dz * dt
}

// MutationRate derives a cellular-automaton mutation rate from the
// attractor's current Z coordinate, biasing the cellular grid's volatility
// by the Lorenz trajectory's chaos (Z ranges roughly [0, 50] on the classic
// attractor).
func (s LorenzState) MutationRate() float64 {
	r := math.Abs(s.Z) / 100.0
	if r > 0.2 {
		r = 0.2
	}
	return r
}
