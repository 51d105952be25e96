package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/scene"
)

// LOD holds tessellation parameters for one shape.
type LOD struct {
	Param1 int
	Param2 int
}

// LODOptions controls adaptive level of detail.
type LODOptions struct {
	Complexity bool // scale down when the scene has many shapes
	Distance   bool // scale per shape by camera distance

	ComplexityThreshold int
	MinParam1           int
	MinParam2           int
	MinDistanceParam    int
	MinSphereParam1     int
}

// DefaultLODOptions returns the stock thresholds with both modes off.
func DefaultLODOptions() LODOptions {
	return LODOptions{
		ComplexityThreshold: 10,
		MinParam1:           1,
		MinParam2:           3,
		MinDistanceParam:    3,
		MinSphereParam1:     2,
	}
}

// ComplexityFactor returns the tessellation scale for a scene of n shapes.
// It is 1 up to the threshold and decays logarithmically above it.
func ComplexityFactor(n, threshold int) float32 {
	if n <= threshold {
		return 1
	}
	return float32(1 / (math.Log(0.1*float64(n-threshold)+1) + 1))
}

// DistanceFactors returns minDistance/distance for every shape, so the
// nearest shape gets 1 and farther shapes get less. If the nearest shape
// sits on the camera every factor is 1.
func DistanceFactors(shapes []scene.Shape, camPos mgl32.Vec3) []float32 {
	factors := make([]float32, len(shapes))
	minDist := float32(math.Inf(1))
	for i, s := range shapes {
		d := s.Origin().Sub(camPos).Len()
		factors[i] = d
		if d < minDist {
			minDist = d
		}
	}

	if !(minDist > 0) {
		for i := range factors {
			factors[i] = 1
		}
		return factors
	}
	for i, d := range factors {
		factors[i] = minDist / d
	}
	return factors
}

// ComputeLOD returns tessellation parameters for each shape from the base
// parameters. Meshes carry their own geometry and keep the base values.
func ComputeLOD(shapes []scene.Shape, camPos mgl32.Vec3, base LOD, opts LODOptions) []LOD {
	p1, p2 := base.Param1, base.Param2

	if opts.Complexity && len(shapes) > opts.ComplexityThreshold {
		f := ComplexityFactor(len(shapes), opts.ComplexityThreshold)
		p1 = int(float32(p1) * f)
		p2 = int(float32(p2) * f)
	}
	p1 = max(opts.MinParam1, p1)
	p2 = max(opts.MinParam2, p2)

	var factors []float32
	if opts.Distance {
		factors = DistanceFactors(shapes, camPos)
	}

	out := make([]LOD, len(shapes))
	for i, s := range shapes {
		lod := LOD{Param1: p1, Param2: p2}
		if opts.Distance {
			floor := float32(opts.MinDistanceParam)
			lod.Param1 = int(max(floor, float32(p1)*factors[i]))
			lod.Param2 = int(max(floor, float32(p2)*factors[i]))
		}

		switch s.Type {
		case scene.PrimitiveSphere:
			lod.Param1 = max(opts.MinSphereParam1, lod.Param1)
		case scene.PrimitiveMesh:
			lod = base
		}
		out[i] = lod
	}
	return out
}
