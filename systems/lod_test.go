package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/scene"
)

func shapeAt(pt scene.PrimitiveType, x, y, z float32) scene.Shape {
	return scene.Shape{Type: pt, CTM: mgl32.Translate3D(x, y, z)}
}

func TestComplexityFactor(t *testing.T) {
	if ComplexityFactor(10, 10) != 1 {
		t.Error("expected factor 1 at the threshold")
	}
	f20 := ComplexityFactor(20, 10)
	f50 := ComplexityFactor(50, 10)
	if !(f20 < 1 && f50 < f20) {
		t.Errorf("expected decreasing factors, got %v %v", f20, f50)
	}
}

func TestComputeLODFloors(t *testing.T) {
	shapes := []scene.Shape{
		shapeAt(scene.PrimitiveCube, 0, 0, 0),
		shapeAt(scene.PrimitiveSphere, 1, 0, 0),
	}
	lods := ComputeLOD(shapes, mgl32.Vec3{}, LOD{Param1: 1, Param2: 1}, DefaultLODOptions())

	if lods[0] != (LOD{1, 3}) {
		t.Errorf("expected cube {1 3}, got %+v", lods[0])
	}
	if lods[1] != (LOD{2, 3}) {
		t.Errorf("expected sphere {2 3}, got %+v", lods[1])
	}
}

func TestComputeLODComplexity(t *testing.T) {
	shapes := make([]scene.Shape, 20)
	for i := range shapes {
		shapes[i] = shapeAt(scene.PrimitiveCylinder, float32(i), 0, 0)
	}
	opts := DefaultLODOptions()
	opts.Complexity = true

	lods := ComputeLOD(shapes, mgl32.Vec3{}, LOD{Param1: 10, Param2: 10}, opts)
	want := int(10 * ComplexityFactor(20, 10))
	if lods[0].Param1 != want || lods[0].Param2 != want {
		t.Errorf("expected %d/%d, got %+v", want, want, lods[0])
	}
}

func TestComputeLODDistance(t *testing.T) {
	shapes := []scene.Shape{
		shapeAt(scene.PrimitiveCone, 0, 0, -2),
		shapeAt(scene.PrimitiveCone, 0, 0, -8),
		shapeAt(scene.PrimitiveMesh, 0, 0, -8),
	}
	opts := DefaultLODOptions()
	opts.Distance = true

	lods := ComputeLOD(shapes, mgl32.Vec3{}, LOD{Param1: 20, Param2: 20}, opts)
	if lods[0] != (LOD{20, 20}) {
		t.Errorf("expected nearest shape at full detail, got %+v", lods[0])
	}
	if lods[1] != (LOD{5, 5}) {
		t.Errorf("expected quarter detail at 4x distance, got %+v", lods[1])
	}
	if lods[2] != (LOD{20, 20}) {
		t.Errorf("expected mesh untouched, got %+v", lods[2])
	}
}

func TestDistanceFactorsDegenerate(t *testing.T) {
	shapes := []scene.Shape{
		shapeAt(scene.PrimitiveCube, 0, 0, 0),
		shapeAt(scene.PrimitiveCube, 3, 0, 0),
	}
	for i, f := range DistanceFactors(shapes, mgl32.Vec3{}) {
		if f != 1 {
			t.Errorf("factor %d = %v, want 1 when a shape sits on the camera", i, f)
		}
	}
}
