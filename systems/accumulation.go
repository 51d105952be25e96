package systems

import "math"

// GridResolution is the number of accumulation cells per side.
const GridResolution = 100

// AccumulationGrid counts settled flakes per terrain cell over world
// (x, z) in [0,1)². It persists across ticks and is cleared on scene reset.
type AccumulationGrid struct {
	counts [GridResolution * GridResolution]uint32
}

// NewAccumulationGrid creates an empty grid.
func NewAccumulationGrid() *AccumulationGrid {
	return &AccumulationGrid{}
}

// InBounds reports whether (x, z) lies in [0,1)².
func InBounds(x, z float32) bool {
	return x >= 0 && x < 1 && z >= 0 && z < 1
}

// CellIndex maps (x, z) to floor(z·R)·R + floor(x·R).
// Only meaningful when InBounds(x, z).
func CellIndex(x, z float32) int {
	row := cellCoord(z)
	col := cellCoord(x)
	return row*GridResolution + col
}

func cellCoord(v float32) int {
	c := int(math.Floor(float64(v * GridResolution)))
	if c >= GridResolution {
		c = GridResolution - 1
	}
	return c
}

// Increment records one settled flake at (x, z). Out of range is a no-op.
func (g *AccumulationGrid) Increment(x, z float32) {
	if !InBounds(x, z) {
		return
	}
	g.counts[CellIndex(x, z)]++
}

// Count returns the counter at (x, z), or 0 out of range.
func (g *AccumulationGrid) Count(x, z float32) uint32 {
	if !InBounds(x, z) {
		return 0
	}
	return g.counts[CellIndex(x, z)]
}

// HeightBonus returns count·rate at (x, z), or 0 out of range.
func (g *AccumulationGrid) HeightBonus(x, z, rate float32) float32 {
	return float32(g.Count(x, z)) * rate
}

// Reset zeroes every counter.
func (g *AccumulationGrid) Reset() {
	g.counts = [GridResolution * GridResolution]uint32{}
}

// Texture returns a row-major copy of the counters, shaped for upload as
// an R×R unsigned-integer texture.
func (g *AccumulationGrid) Texture() []uint32 {
	out := make([]uint32, len(g.counts))
	copy(out, g.counts[:])
	return out
}

// Total returns the sum of all counters.
func (g *AccumulationGrid) Total() uint64 {
	var sum uint64
	for _, c := range g.counts {
		sum += uint64(c)
	}
	return sum
}

// Max returns the largest counter.
func (g *AccumulationGrid) Max() uint32 {
	var m uint32
	for _, c := range g.counts {
		if c > m {
			m = c
		}
	}
	return m
}
