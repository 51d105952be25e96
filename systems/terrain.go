package systems

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain mesh constants.
const (
	TerrainResolution = 100 // quads per side
	FloatsPerVertex   = 8   // position3, normal3, uv2
	VertsPerQuad      = 6

	grayScale   = 1600 // gray level divisor for base height
	baseOctave  = 8    // first noise frequency
	quadStride  = VertsPerQuad * FloatsPerVertex
	terrainRow  = TerrainResolution * quadStride
	terrainSize = TerrainResolution * terrainRow
)

// HeightField answers terrain height queries in world space.
type HeightField interface {
	WorldHeight(x, z float32, bump int) float32
}

// TerrainMesh builds the heightmap + noise terrain and answers height queries.
type TerrainMesh struct {
	noise     *NoiseField
	heightmap *Heightmap
	pool      *WorkerPool

	rotation mgl32.Mat4 // -90° about X, height becomes +Y
	vertices int
}

// NewTerrainMesh creates a terrain with no heightmap loaded.
// pool may be nil, in which case the mesh is built on the calling goroutine.
func NewTerrainMesh(pool *WorkerPool) *TerrainMesh {
	return &TerrainMesh{
		noise:    NewNoiseField(NoiseSeed),
		pool:     pool,
		rotation: mgl32.HomogRotate3DX(mgl32.DegToRad(-90)),
	}
}

// Noise returns the terrain's gradient noise field.
func (t *TerrainMesh) Noise() *NoiseField { return t.noise }

// Loaded reports whether a heightmap is currently loaded.
func (t *TerrainMesh) Loaded() bool { return t.heightmap != nil }

// Vertices returns the vertex count of the last generated mesh.
func (t *TerrainMesh) Vertices() int { return t.vertices }

// SetHeightmap installs an already decoded heightmap. nil unloads it.
func (t *TerrainMesh) SetHeightmap(hm *Heightmap) {
	t.heightmap = hm
}

// Height samples terrain height at normalized (u, v).
// Returns 0 when no heightmap is loaded or (u, v) is outside [0,1)².
func (t *TerrainMesh) Height(u, v float32, bump int) float32 {
	hm := t.heightmap
	if hm == nil {
		return 0
	}
	if u < 0 || v < 0 || u >= 1 || v >= 1 {
		return 0
	}

	i := int(float32(hm.Width()) * u)
	j := int(float32(hm.Height()) * v)
	base := hm.Gray(i, j)

	var z float32
	factor := baseOctave
	for n := 0; n < bump; n++ {
		f := float32(factor)
		z += t.noise.Perlin(u*f, v*f) / f
		factor *= 2
	}

	return base/grayScale + z
}

// WorldHeight returns the terrain surface height under world (x, z).
// The mesh is rotated -90° about X and shifted by +1 in z, so world z
// maps back to v = 1 - z.
func (t *TerrainMesh) WorldHeight(x, z float32, bump int) float32 {
	return t.Height(x, 1-z, bump)
}

// Position returns the unrotated grid vertex (row/R, col/R, height).
func (t *TerrainMesh) Position(row, col, bump int) mgl32.Vec3 {
	x := float32(row) / TerrainResolution
	y := float32(col) / TerrainResolution
	return mgl32.Vec3{x, y, t.Height(x, y, bump)}
}

// normalRing lists the Moore neighbourhood offsets in winding order.
var normalRing = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1}, {1, 0},
	{1, 1}, {0, 1}, {-1, 1}, {-1, 0},
}

// Normal averages the cross products of consecutive neighbour vectors
// around the vertex. This approximates the surface normal; the ring order
// fixes its sign.
func (t *TerrainMesh) Normal(row, col, bump int) mgl32.Vec3 {
	var ring [8]mgl32.Vec3
	for i, off := range normalRing {
		ring[i] = t.Position(row+off[0], col+off[1], bump)
	}
	p := t.Position(row, col, bump)

	var sum mgl32.Vec3
	for i := 0; i < 8; i++ {
		a := ring[i].Sub(p)
		b := ring[(i+1)%8].Sub(p)
		sum = sum.Add(a.Cross(b))
	}
	return sum.Normalize()
}

// Load decodes the heightmap at path. On failure the heightmap is unloaded
// and every height query returns 0.
func (t *TerrainMesh) Load(path string) error {
	hm, err := LoadHeightmap(path)
	if err != nil {
		t.heightmap = nil
		return err
	}
	t.heightmap = hm
	return nil
}

// Generate loads the heightmap and builds the terrain vertex buffer.
// A heightmap that fails to load is logged and yields an empty buffer.
func (t *TerrainMesh) Generate(path string, bump int) []float32 {
	if err := t.Load(path); err != nil {
		slog.Warn("heightmap unavailable, terrain is flat", "path", path, "error", err)
		t.vertices = 0
		return []float32{}
	}
	return t.Build(bump)
}

// Build emits the triangle list for the loaded heightmap: R×R quads,
// two triangles each, interleaved position/normal/uv.
// Rows are independent and are built across the worker pool.
func (t *TerrainMesh) Build(bump int) []float32 {
	verts := make([]float32, terrainSize)

	buildRows := func(_, start, end int) {
		for x := start; x < end; x++ {
			t.buildRow(verts[x*terrainRow:(x+1)*terrainRow], x, bump)
		}
	}
	if t.pool != nil {
		t.pool.ParallelFor(TerrainResolution, buildRows)
	} else {
		buildRows(0, 0, TerrainResolution)
	}

	t.vertices = len(verts) / FloatsPerVertex
	return verts
}

// buildRow fills one row of quads (fixed x, all y) into out.
func (t *TerrainMesh) buildRow(out []float32, x, bump int) {
	off := 0
	for y := 0; y < TerrainResolution; y++ {
		p1, n1 := t.vertex(x, y, bump)
		p2, n2 := t.vertex(x+1, y, bump)
		p3, n3 := t.vertex(x+1, y+1, bump)
		p4, n4 := t.vertex(x, y+1, bump)

		off = putVertex(out, off, p1, n1)
		off = putVertex(out, off, p2, n2)
		off = putVertex(out, off, p3, n3)

		off = putVertex(out, off, p1, n1)
		off = putVertex(out, off, p3, n3)
		off = putVertex(out, off, p4, n4)
	}
}

// vertex returns the rotated world-space position and normal of a grid point.
func (t *TerrainMesh) vertex(row, col, bump int) (mgl32.Vec3, mgl32.Vec3) {
	p := t.rotation.Mul4x1(t.Position(row, col, bump).Vec4(1)).Vec3()
	n := t.rotation.Mul4x1(t.Normal(row, col, bump).Vec4(0)).Vec3()
	p[2] += 1
	return p, n
}

// putVertex writes position, normal and uv = (p.x, -p.z) at off.
func putVertex(out []float32, off int, p, n mgl32.Vec3) int {
	out[off+0] = p[0]
	out[off+1] = p[1]
	out[off+2] = p[2]
	out[off+3] = n[0]
	out[off+4] = n[1]
	out[off+5] = n[2]
	out[off+6] = p[0]
	out[off+7] = -p[2]
	return off + FloatsPerVertex
}
