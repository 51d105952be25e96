package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Noise table constants. Fixed so terrain shape is reproducible for a
// given heightmap and bumpiness.
const (
	NoiseTableSize = 1024
	NoiseSeed      = 1230
)

// NoiseField is a seeded gradient table with a 2D Perlin evaluator.
// It is immutable after construction and safe for concurrent reads.
type NoiseField struct {
	table [NoiseTableSize]mgl32.Vec2
}

// NewNoiseField fills the gradient table from the given seed.
// Components are uniform in [-1, 1).
func NewNoiseField(seed int64) *NoiseField {
	n := &NoiseField{}
	rng := rand.New(rand.NewSource(seed))
	for i := range n.table {
		x := rng.Float32()*2 - 1
		y := rng.Float32()*2 - 1
		n.table[i] = mgl32.Vec2{x, y}
	}
	return n
}

// GradientAt returns the gradient for an integer lattice point.
// Negative coordinates wrap as an unsigned machine word.
func (n *NoiseField) GradientAt(row, col int) mgl32.Vec2 {
	h := uint64(int64(row*41 + col*43))
	return n.table[h%NoiseTableSize]
}

// Perlin evaluates 2D gradient noise at (x, y).
// The result is not normalized and is exactly 0 on integer lattice points.
func (n *NoiseField) Perlin(x, y float32) float32 {
	fx0 := float32(math.Floor(float64(x)))
	fy0 := float32(math.Floor(float64(y)))
	x0, y0 := int(fx0), int(fy0)

	fx := x - fx0
	fy := y - fy0

	// Corner offsets, clockwise from the cell origin
	tl := mgl32.Vec2{fx, fy}
	tr := mgl32.Vec2{fx - 1, fy}
	br := mgl32.Vec2{fx - 1, fy - 1}
	bl := mgl32.Vec2{fx, fy - 1}

	a := n.GradientAt(y0, x0).Dot(tl)
	b := n.GradientAt(y0, x0+1).Dot(tr)
	c := n.GradientAt(y0+1, x0+1).Dot(br)
	d := n.GradientAt(y0+1, x0).Dot(bl)

	return interp(interp(a, b, fx), interp(d, c, fx), fy)
}

// interp blends a toward b with the 3t²-2t³ ease curve.
func interp(a, b, t float32) float32 {
	ease := 3*t*t - 2*t*t*t
	return a + ease*(b-a)
}
