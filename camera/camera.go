// Package camera provides a free-flying 3D camera driven by held keys and
// mouse drags.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/scene"
)

// Key is a movement key.
type Key uint8

const (
	KeyForward  Key = iota // W
	KeyBackward            // S
	KeyLeft                // A
	KeyRight               // D
	KeyUp                  // Space
	KeyDown                // Control
	numKeys
)

// Camera holds the eye pose and projection parameters.
// Look and Up are not required to be unit length; movement is scaled by
// their actual length.
type Camera struct {
	Pos  mgl32.Vec3
	Look mgl32.Vec3
	Up   mgl32.Vec3

	// Projection
	HeightAngle float32 // vertical field of view, radians
	Aspect      float32
	Near, Far   float32

	held [numKeys]bool
}

// New creates a camera from the scene pose.
func New(data scene.CameraData, aspect, near, far float32) *Camera {
	return &Camera{
		Pos:         data.Pos.Vec3(),
		Look:        data.Look.Vec3(),
		Up:          data.Up.Vec3(),
		HeightAngle: data.HeightAngle,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

// Data returns the current pose in scene form.
func (c *Camera) Data() scene.CameraData {
	return scene.CameraData{
		Pos:         c.Pos.Vec4(1),
		Look:        c.Look.Vec4(0),
		Up:          c.Up.Vec4(0),
		HeightAngle: c.HeightAngle,
	}
}

// Press marks a key as held.
func (c *Camera) Press(k Key) {
	if k < numKeys {
		c.held[k] = true
	}
}

// Release marks a key as released.
func (c *Camera) Release(k Key) {
	if k < numKeys {
		c.held[k] = false
	}
}

// Held reports whether a key is held.
func (c *Camera) Held(k Key) bool {
	return k < numKeys && c.held[k]
}

// ReleaseAll clears every held key.
func (c *Camera) ReleaseAll() {
	c.held = [numKeys]bool{}
}

// Integrate moves the camera along every held key direction for dt seconds.
// Forward follows look, strafing follows look×up, and up/down follow world Y.
func (c *Camera) Integrate(dt float32) {
	right := c.Look.Cross(c.Up)

	if c.held[KeyForward] {
		c.Pos = c.Pos.Add(c.Look.Mul(dt))
	}
	if c.held[KeyBackward] {
		c.Pos = c.Pos.Sub(c.Look.Mul(dt))
	}
	if c.held[KeyLeft] {
		c.Pos = c.Pos.Sub(right.Mul(dt))
	}
	if c.held[KeyRight] {
		c.Pos = c.Pos.Add(right.Mul(dt))
	}
	if c.held[KeyUp] {
		c.Pos = c.Pos.Add(mgl32.Vec3{0, dt, 0})
	}
	if c.held[KeyDown] {
		c.Pos = c.Pos.Sub(mgl32.Vec3{0, dt, 0})
	}
}

// Drag turns the camera for a mouse move of (dx, dy) pixels: yaw about
// world Y, then pitch about the camera's right axis. Look and Up are
// renormalized afterwards.
func (c *Camera) Drag(dx, dy, sensitivity float32) {
	yaw := mgl32.HomogRotate3DY(dx * sensitivity)

	right := c.Look.Cross(c.Up).Normalize()
	pitch := mgl32.HomogRotate3D(dy*sensitivity, right)

	rot := pitch.Mul4(yaw)
	c.Look = rot.Mul4x1(c.Look.Vec4(0)).Vec3().Normalize()
	c.Up = rot.Mul4x1(c.Up.Vec4(0)).Vec3().Normalize()
}

// SetPlanes updates the clip planes.
func (c *Camera) SetPlanes(near, far float32) {
	c.Near = near
	c.Far = far
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Pos, c.Pos.Add(c.Look), c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.HeightAngle, c.Aspect, c.Near, c.Far)
}
