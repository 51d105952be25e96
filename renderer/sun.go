package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sun colors at the horizon and at the zenith.
var (
	SunWarm  = mgl32.Vec3{1, 0.5, 0.1}
	SunWhite = mgl32.Vec3{1, 1, 1}
)

// DefaultSunSpeed is the rotation speed in degrees per frame.
const DefaultSunSpeed = 0.25

// Sun tracks the directional light's day/night motion.
// The direction is always a rotation about Z of the origin by the
// frame counter times the speed.
type Sun struct {
	Direction mgl32.Vec3
	origin    mgl32.Vec4
	frames    int
	speed     float32 // degrees per frame
}

// NewSun creates a sun at the 6:00 position, pointing along -X.
func NewSun(speed float32) *Sun {
	return &Sun{
		Direction: mgl32.Vec3{-1, 0, 0},
		origin:    mgl32.Vec4{-1, 0, 0, 0},
		speed:     speed,
	}
}

// Frames returns the frame counter since the last capture.
func (s *Sun) Frames() int { return s.frames }

// Origin returns the direction the rotation starts from.
func (s *Sun) Origin() mgl32.Vec4 { return s.origin }

// Capture makes the current direction the new rotation origin and
// restarts the frame counter.
func (s *Sun) Capture() {
	s.origin = s.Direction.Vec4(0)
	s.frames = 0
}

// SetTimeOfDay points the sun for the given hour: 6:00 is 0°, 18:00 is
// 180°, wrapped to [0, 360). The counter restarts from that direction.
func (s *Sun) SetTimeOfDay(hour int) {
	deg := float32(hour-6) * 15
	if deg < 0 {
		deg += 360
	} else if deg >= 360 {
		deg -= 360
	}

	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(deg))
	s.origin = rot.Mul4x1(mgl32.Vec4{-1, 0, 0, 1})
	s.Direction = s.origin.Vec3()
	s.frames = 0
}

// Advance counts one frame and, when rotating, moves the direction.
func (s *Sun) Advance(rotating bool) {
	s.frames++
	if !rotating {
		return
	}
	angle := mgl32.DegToRad(float32(s.frames) * s.speed)
	s.Direction = mgl32.HomogRotate3DZ(angle).Mul4x1(s.origin).Vec3()
}

// Reset restores the initial direction and counter.
func (s *Sun) Reset() {
	*s = *NewSun(s.speed)
}

// Color blends from warm to white by how vertical the sun is.
func (s *Sun) Color() mgl32.Vec3 {
	return SunColor(s.Direction)
}

// SunColor returns mix(warm, white, |dot(normalize(dir), +Y)|).
func SunColor(dir mgl32.Vec3) mgl32.Vec3 {
	n := dir.Normalize()
	blend := float32(math.Abs(float64(n.Dot(mgl32.Vec3{0, 1, 0}))))
	return SunWarm.Mul(1 - blend).Add(SunWhite.Mul(blend))
}
