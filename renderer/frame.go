// Package renderer assembles the per-tick outputs handed to an external
// GPU renderer: geometry buffers, transforms, lights and the sun.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/systems"
)

// Frame is everything the renderer needs to draw one tick.
// Particles, Positions, StaticSnow, Accumulation and LOD are fresh copies.
// Quad and Terrain share the game's buffers and must be treated as read-only.
type Frame struct {
	Tick int64

	// Terrain is set only on ticks where the mesh was rebuilt.
	Terrain            []float32
	TerrainRegenerated bool

	// Snow geometry: one quad, instanced by the matrices below.
	Quad       []float32
	Particles  []mgl32.Mat4
	StaticSnow []mgl32.Mat4 // populated only while accumulate is on
	Positions  []float32    // flake xyz, for point rendering

	View       mgl32.Mat4
	Projection mgl32.Mat4
	CameraPos  mgl32.Vec4

	Lights       [MaxLights]LightSlot
	SunDirection mgl32.Vec3
	SunColor     mgl32.Vec3

	// Accumulation grid, row-major, for upload as an unsigned-integer texture.
	Accumulation   []uint32
	Accumulate     bool
	Increase       bool
	AccumulateRate float32

	SnowTimer int
	SunTimer  int

	// Tessellation parameters per scene shape.
	LOD []systems.LOD
}

// Batch is a flattened vertex buffer with per-shape draw ranges.
type Batch struct {
	VBO    []float32
	Starts []int // first vertex of each shape
	Sizes  []int // vertex count of each shape
	Models []mgl32.Mat4
}

// Flatten concatenates shapes into one buffer, recording for each shape
// its first vertex index and vertex count.
func Flatten(shapes [][]float32) (vbo []float32, starts, sizes []int) {
	total := 0
	for _, s := range shapes {
		total += len(s)
	}
	vbo = make([]float32, 0, total)
	starts = make([]int, 0, len(shapes))
	sizes = make([]int, 0, len(shapes))

	for _, s := range shapes {
		starts = append(starts, len(vbo)/systems.FloatsPerVertex)
		vbo = append(vbo, s...)
		sizes = append(sizes, len(s)/systems.FloatsPerVertex)
	}
	return vbo, starts, sizes
}

// SnowBatch flattens one quad per flake, followed by one per static snow
// instance, for renderers without instancing.
func (f *Frame) SnowBatch() Batch {
	n := len(f.Particles) + len(f.StaticSnow)
	shapes := make([][]float32, n)
	for i := range shapes {
		shapes[i] = f.Quad
	}

	var b Batch
	b.VBO, b.Starts, b.Sizes = Flatten(shapes)
	b.Models = make([]mgl32.Mat4, 0, n)
	b.Models = append(b.Models, f.Particles...)
	b.Models = append(b.Models, f.StaticSnow...)
	return b
}
