package oes

// GenomeSize is the byte length of the mutating cryptographic genome (2048
// bits), grounded on original_source/crates/rope-crypto/src/oes.rs's
// genome sizing.
const GenomeSize = 256

// Genome is the mutating cryptographic DNA strand that accumulates every
// evolution step's influence and ultimately seeds key derivation.
type Genome [GenomeSize]byte

func genomeFromSeed(seed []byte) Genome {
	var g Genome
	copy(g[:], newPRNG(seed).nextBytes(GenomeSize))
	return g
}

// Mutate flips bits of g at a rate controlled by the supplied PRNG, mirroring
// the original's mutation-rate-gated bit flip during each generation.
func (g *Genome) Mutate(rng *prng, rate float64) {
	for i := range g {
		if rng.nextFloat64() < rate {
			bit := byte(1) << uint(rng.nextUint64()%8)
			g[i] ^= bit
		}
	}
}
