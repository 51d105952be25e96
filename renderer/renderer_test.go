package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/scene"
	"github.com/pthm-cable/snowscape/systems"
)

func TestBindLightsTruncatesToEight(t *testing.T) {
	sun := NewSun(DefaultSunSpeed)

	lights := make([]scene.Light, 10)
	for i := range lights {
		lights[i] = scene.Light{Type: scene.LightDirectional}
	}
	// Mark the 9th and 10th so we can tell if they leak in
	lights[8] = scene.Light{Type: scene.LightPoint, Color: mgl32.Vec4{9, 9, 9, 1}}
	lights[9] = scene.Light{Type: scene.LightPoint, Color: mgl32.Vec4{9, 9, 9, 1}}

	slots := BindLights(lights, sun)
	for i, s := range slots {
		if s.Type != scene.LightDirectional {
			t.Errorf("slot %d: expected directional, got %d", i, s.Type)
		}
		if s.Direction != sun.Direction {
			t.Errorf("slot %d: expected sun direction %v, got %v", i, sun.Direction, s.Direction)
		}
		if s.Color != sun.Color() {
			t.Errorf("slot %d: expected sun color %v, got %v", i, sun.Color(), s.Color)
		}
	}
}

func TestBindLightsDisablesUnusedSlots(t *testing.T) {
	sun := NewSun(DefaultSunSpeed)
	lights := []scene.Light{
		{Type: scene.LightPoint, Color: mgl32.Vec4{0.5, 0.5, 0.5, 1}, Pos: mgl32.Vec4{1, 2, 3, 1}, Function: mgl32.Vec3{1, 0, 0}},
		{Type: scene.LightSpot, Color: mgl32.Vec4{1, 0, 0, 1}, Dir: mgl32.Vec4{0, -1, 0, 0}, Angle: 0.5, Penumbra: 0.1},
	}

	slots := BindLights(lights, sun)

	if slots[0].Type != scene.LightPoint || slots[0].Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("point slot not bound: %+v", slots[0])
	}
	if slots[0].Function != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected point attenuation copied, got %v", slots[0].Function)
	}
	if slots[1].Type != scene.LightSpot || slots[1].Angle != 0.5 || slots[1].Penumbra != 0.1 {
		t.Errorf("spot slot not bound: %+v", slots[1])
	}
	if slots[1].Direction != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("expected spot direction copied, got %v", slots[1].Direction)
	}

	for i := 2; i < MaxLights; i++ {
		s := slots[i]
		if s.Type != LightDisabled {
			t.Errorf("slot %d: expected disabled sentinel, got %d", i, s.Type)
		}
		if s.Color != (mgl32.Vec3{}) || s.Direction != (mgl32.Vec3{}) || s.Position != (mgl32.Vec3{}) {
			t.Errorf("slot %d: expected zeroed slot, got %+v", i, s)
		}
	}
}

func TestSunColor(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
		want mgl32.Vec3
	}{
		{"horizon", mgl32.Vec3{-1, 0, 0}, SunWarm},
		{"zenith", mgl32.Vec3{0, -1, 0}, SunWhite},
		{"diagonal", mgl32.Vec3{1, 1, 0}, SunWarm.Mul(1 - 0.70710677).Add(SunWhite.Mul(0.70710677))},
	}

	for _, tc := range tests {
		got := SunColor(tc.dir)
		if !got.ApproxEqualThreshold(tc.want, 1e-5) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSunTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want mgl32.Vec3
	}{
		{6, mgl32.Vec3{-1, 0, 0}},
		{12, mgl32.Vec3{0, -1, 0}}, // 90° about Z
		{18, mgl32.Vec3{1, 0, 0}},
		{0, mgl32.Vec3{0, 1, 0}}, // -90° wraps to 270°
	}

	for _, tc := range tests {
		sun := NewSun(DefaultSunSpeed)
		sun.Advance(true)
		sun.SetTimeOfDay(tc.hour)

		if !sun.Direction.ApproxEqualThreshold(tc.want, 1e-5) {
			t.Errorf("hour %d: expected %v, got %v", tc.hour, tc.want, sun.Direction)
		}
		if sun.Frames() != 0 {
			t.Errorf("hour %d: expected counter reset, got %d", tc.hour, sun.Frames())
		}
	}
}

func TestSunAdvance(t *testing.T) {
	sun := NewSun(DefaultSunSpeed)

	// Not rotating: counter moves, direction does not
	sun.Advance(false)
	if sun.Frames() != 1 || sun.Direction != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("expected frame 1 with fixed direction, got %d %v", sun.Frames(), sun.Direction)
	}

	sun.Capture()
	for i := 0; i < 360; i++ {
		sun.Advance(true)
	}
	// 360 frames at 0.25°/frame is a quarter turn
	if !sun.Direction.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-4) {
		t.Errorf("expected quarter turn to (0, -1, 0), got %v", sun.Direction)
	}

	// Capture restarts from the current direction
	sun.Capture()
	captured := sun.Direction
	sun.Advance(true)
	angle := math.Acos(float64(sun.Direction.Normalize().Dot(captured.Normalize())))
	if math.Abs(angle-float64(mgl32.DegToRad(0.25))) > 1e-4 {
		t.Errorf("expected 0.25° step after capture, got %f rad", angle)
	}
}

func TestFlatten(t *testing.T) {
	a := make([]float32, 3*systems.FloatsPerVertex)
	b := make([]float32, 6*systems.FloatsPerVertex)
	vbo, starts, sizes := Flatten([][]float32{a, b, a})

	if len(vbo) != len(a)*2+len(b) {
		t.Errorf("expected %d floats, got %d", len(a)*2+len(b), len(vbo))
	}
	wantStarts := []int{0, 3, 9}
	wantSizes := []int{3, 6, 3}
	for i := range wantStarts {
		if starts[i] != wantStarts[i] || sizes[i] != wantSizes[i] {
			t.Errorf("shape %d: expected start %d size %d, got %d %d",
				i, wantStarts[i], wantSizes[i], starts[i], sizes[i])
		}
	}
}

func TestSnowBatch(t *testing.T) {
	f := Frame{
		Quad:       systems.SnowQuad(),
		Particles:  make([]mgl32.Mat4, 3),
		StaticSnow: make([]mgl32.Mat4, 2),
	}
	b := f.SnowBatch()

	if len(b.Starts) != 5 || len(b.Models) != 5 {
		t.Fatalf("expected 5 shapes, got %d starts %d models", len(b.Starts), len(b.Models))
	}
	if b.Sizes[4] != systems.SnowQuadVertices {
		t.Errorf("expected quad of %d vertices, got %d", systems.SnowQuadVertices, b.Sizes[4])
	}
	if b.Starts[4] != 4*systems.SnowQuadVertices {
		t.Errorf("expected last start %d, got %d", 4*systems.SnowQuadVertices, b.Starts[4])
	}
}
