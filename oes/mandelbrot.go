package oes

import (
	"math"
	"math/cmplx"
)

// MandelbrotState walks the Mandelbrot iteration z = z^2 + c from a
// seed-derived point c, resetting to the origin whenever the orbit escapes
// so the walk stays bounded and keeps producing chaotic output across
// unbounded generations (grounded on the fractal chaos source in
// original_source/crates/rope-crypto/src/oes.rs).
type MandelbrotState struct {
	C          complex128
	Z          complex128
	Iterations uint64
}

func mandelbrotFromSeed(seed []byte) MandelbrotState {
	rng := newPRNG(seed)
	re := bytesToRange(rng.nextBytes(8), -2, 1)
	im := bytesToRange(rng.nextBytes(8), -1.5, 1.5)
	return MandelbrotState{C: complex(re, im)}
}

// Step advances the orbit by one iteration.
func (m *MandelbrotState) Step() {
	m.Z = m.Z*m.Z + m.C
	m.Iterations++
	if cmplx.Abs(m.Z) > 2 {
		m.Z = 0
	}
}

// Bytes encodes the current orbit point deterministically for mixing into
// the generation's proof.
func (m MandelbrotState) Bytes() [16]byte {
	var out [16]byte
	putFloat64(out[0:8], real(m.Z))
	putFloat64(out[8:16], imag(m.Z))
	return out
}

func putFloat64(dst []byte, f float64) {
	bits := math.Float64bits(f)
	for i := 0; i < 8; i++ {
		dst[7-i] = byte(bits)
		bits >>= 8
	}
}
