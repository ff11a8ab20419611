package oes

import "github.com/latticenet/core/hash"

// CellularGridSize is the edge length of the toroidal Game-of-Life grid
// used as one of the OES chaos sources.
const CellularGridSize = 16

// CellularGrid is a toroidal (wraparound) Game-of-Life board: cells are
// alive (1) or dead (0), evolved each generation by the standard
// birth/survival rules plus a small seeded mutation rate, matching
// original_source/crates/rope-crypto/src/oes.rs's CellularGrid.
type CellularGrid struct {
	size int
	grid []byte
}

func cellularFromSeed(seed []byte) CellularGrid {
	g := CellularGrid{size: CellularGridSize, grid: make([]byte, CellularGridSize*CellularGridSize)}
	rng := newPRNG(seed)
	for i := range g.grid {
		if rng.nextFloat64() < 0.5 {
			g.grid[i] = 1
		}
	}
	return g
}

func (g *CellularGrid) at(x, y int) byte {
	x = ((x % g.size) + g.size) % g.size
	y = ((y % g.size) + g.size) % g.size
	return g.grid[y*g.size+x]
}

func (g *CellularGrid) countNeighbors(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n += int(g.at(x+dx, y+dy))
		}
	}
	return n
}

// Evolve applies one Game-of-Life generation (birth on exactly 3 live
// neighbors, survival on 2 or 3) and then flips each cell independently
// with probability mutationRate, drawing one rng value per cell for the
// mutation flip (the birth/survival rule itself is deterministic).
func (g *CellularGrid) Evolve(rng *prng, mutationRate float64) {
	next := make([]byte, len(g.grid))
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			n := g.countNeighbors(x, y)
			alive := g.at(x, y) == 1
			var nextAlive bool
			switch {
			case alive && (n == 2 || n == 3):
				nextAlive = true
			case !alive && n == 3:
				nextAlive = true
			}
			if rng.nextFloat64() < mutationRate {
				nextAlive = !nextAlive
			}
			if nextAlive {
				next[y*g.size+x] = 1
			}
		}
	}
	g.grid = next
}

// Density returns the fraction of live cells in [0, 1].
func (g *CellularGrid) Density() float64 {
	alive := 0
	for _, c := range g.grid {
		alive += int(c)
	}
	return float64(alive) / float64(len(g.grid))
}

// Hash returns the canonical digest of the grid's current state.
func (g *CellularGrid) Hash() hash.Digest {
	return hash.Sum(g.grid)
}
