package systems

import "github.com/go-gl/mathgl/mgl32"

// Snow quad geometry constants.
const (
	quadTiles     = 4    // tiles per side
	quadThickness = 0.01 // face offset from z = 0
	quadFaceEps   = 1e-5
)

// SnowQuadVertices is the vertex count of SnowQuad.
const SnowQuadVertices = 2 * quadTiles * quadTiles * VertsPerQuad

// SnowQuad returns a unit square centred at the origin, tiled 4×4 on a
// front face (z = +0.01) and a back face (z = -0.01), as interleaved
// position/normal/uv floats. Every flake and static snow instance uses it.
func SnowQuad() []float32 {
	out := make([]float32, 0, SnowQuadVertices*FloatsPerVertex)
	out = appendQuadFace(out, true)
	out = appendQuadFace(out, false)
	return out
}

func appendQuadFace(out []float32, front bool) []float32 {
	z := float32(-quadThickness)
	normal := mgl32.Vec3{0, 0, -1}
	if front {
		z = quadThickness
		normal = mgl32.Vec3{0, 0, 1}
	}

	const step = 1.0 / quadTiles
	for i := 0; i < quadTiles; i++ {
		for j := 0; j < quadTiles; j++ {
			left := float32(-0.5 + float64(i)*step)
			right := float32(-0.5 + float64(i+1)*step)
			top := float32(0.5 - float64(j)*step)
			bottom := float32(0.5 - float64(j+1)*step)

			topLeft := mgl32.Vec3{left, top, z}
			bottomLeft := mgl32.Vec3{left, bottom, z}
			bottomRight := mgl32.Vec3{right, bottom, z}
			topRight := mgl32.Vec3{right, top, z}

			out = appendQuadVertex(out, topLeft, normal)
			out = appendQuadVertex(out, bottomLeft, normal)
			out = appendQuadVertex(out, bottomRight, normal)

			out = appendQuadVertex(out, topRight, normal)
			out = appendQuadVertex(out, topLeft, normal)
			out = appendQuadVertex(out, bottomRight, normal)
		}
	}
	return out
}

func appendQuadVertex(out []float32, p, n mgl32.Vec3) []float32 {
	uv := quadUV(p, 1, 1)
	return append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
}

// quadUV maps a face point to texture space. The back face mirrors u.
// Coordinates are scaled by the repeat counts and wrapped to their
// fractional part.
func quadUV(p mgl32.Vec3, repeatU, repeatV float32) mgl32.Vec2 {
	var u, v float32
	if abs32(p[2]-quadThickness) < quadFaceEps {
		u = p[0] + 0.5
	} else {
		u = -p[0] + 0.5
	}
	v = p[1] + 0.5

	su := u * repeatU
	sv := v * repeatV
	return mgl32.Vec2{su - float32(int(su)), sv - float32(int(sv))}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
