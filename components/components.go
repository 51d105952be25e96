// Package components defines ECS components for the snow simulation.
package components

import "github.com/go-gl/mathgl/mgl32"

// Kinematics holds a flake's linear motion state.
type Kinematics struct {
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3 // horizontal drift, re-randomized every tick
}

// Spin holds a flake's tumbling state.
// Axis is fixed at spawn from the spherical angles (Theta, Phi) and never
// changes afterwards; Theta keeps advancing as the rotation angle.
type Spin struct {
	Axis  mgl32.Vec3
	Theta float32
	Phi   float32
	Omega float32
}

// Life holds a flake's recycle state.
type Life struct {
	Lifetime float32 // set at spawn, informational only
	Grounded bool    // landed or fell out of the world; recycled next update
}
