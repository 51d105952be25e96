package systems

import "testing"

func TestSnowQuadSize(t *testing.T) {
	q := SnowQuad()
	if len(q) != SnowQuadVertices*FloatsPerVertex {
		t.Fatalf("expected %d floats, got %d", SnowQuadVertices*FloatsPerVertex, len(q))
	}
	if SnowQuadVertices != 192 {
		t.Errorf("expected 192 vertices, got %d", SnowQuadVertices)
	}
}

func TestSnowQuadFaces(t *testing.T) {
	q := SnowQuad()
	half := SnowQuadVertices / 2

	for v := 0; v < SnowQuadVertices; v++ {
		off := v * FloatsPerVertex
		z, nz := q[off+2], q[off+5]
		u, uv := q[off+6], q[off+7]

		wantZ, wantN := float32(quadThickness), float32(1)
		if v >= half {
			wantZ, wantN = -quadThickness, -1
		}
		if z != wantZ || nz != wantN {
			t.Fatalf("vertex %d: z %v normal %v, want %v %v", v, z, nz, wantZ, wantN)
		}
		if u < 0 || u >= 1 || uv < 0 || uv >= 1 {
			t.Fatalf("vertex %d: uv (%v, %v) outside [0,1)", v, u, uv)
		}
	}
}

func TestSnowQuadFirstTile(t *testing.T) {
	q := SnowQuad()

	// Front face, first tile: top-left, bottom-left, bottom-right.
	want := [][2]float32{{-0.5, 0.5}, {-0.5, 0.25}, {-0.25, 0.25}, {-0.25, 0.5}, {-0.5, 0.5}, {-0.25, 0.25}}
	for i, w := range want {
		off := i * FloatsPerVertex
		if q[off] != w[0] || q[off+1] != w[1] {
			t.Errorf("vertex %d: (%v, %v), want %v", i, q[off], q[off+1], w)
		}
	}

	// Left edge of the front face maps to u = 0.
	if q[6] != 0 {
		t.Errorf("expected u = 0 at the front left edge, got %v", q[6])
	}
}
