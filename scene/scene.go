// Package scene holds the scene description consumed by the simulation:
// camera pose, lights and placed shapes.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/config"
)

// PrimitiveType identifies a shape primitive.
type PrimitiveType uint8

const (
	PrimitiveCube PrimitiveType = iota
	PrimitiveCone
	PrimitiveCylinder
	PrimitiveSphere
	PrimitiveMesh
)

var primitiveNames = map[string]PrimitiveType{
	"cube":     PrimitiveCube,
	"cone":     PrimitiveCone,
	"cylinder": PrimitiveCylinder,
	"sphere":   PrimitiveSphere,
	"mesh":     PrimitiveMesh,
}

// String returns the primitive name.
func (p PrimitiveType) String() string {
	for name, v := range primitiveNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// LightType identifies a light source. Values match the shader's encoding.
type LightType int32

const (
	LightDirectional LightType = 0
	LightPoint       LightType = 1
	LightSpot        LightType = 2
)

var lightNames = map[string]LightType{
	"directional": LightDirectional,
	"point":       LightPoint,
	"spot":        LightSpot,
}

// Light is a scene light.
type Light struct {
	Type     LightType
	Color    mgl32.Vec4
	Function mgl32.Vec3 // constant, linear, quadratic attenuation
	Pos      mgl32.Vec4
	Dir      mgl32.Vec4
	Angle    float32 // spot cone half-angle, radians
	Penumbra float32 // spot falloff width, radians
}

// Shape is a placed primitive with its cumulative transform.
type Shape struct {
	Type PrimitiveType
	CTM  mgl32.Mat4
}

// CameraData is the camera pose as stored in the scene.
type CameraData struct {
	Pos         mgl32.Vec4
	Look        mgl32.Vec4
	Up          mgl32.Vec4
	HeightAngle float32 // radians
}

// State is a loaded scene.
type State struct {
	Camera CameraData
	Lights []Light
	Shapes []Shape
}

// FromConfig builds a scene from its config description.
func FromConfig(sc config.SceneConfig, heightAngleDeg float64) (State, error) {
	st := State{
		Camera: CameraData{
			Pos:         vec3(sc.Camera.Pos).Vec4(1),
			Look:        vec3(sc.Camera.Look).Vec4(0),
			Up:          vec3(sc.Camera.Up).Vec4(0),
			HeightAngle: mgl32.DegToRad(float32(heightAngleDeg)),
		},
	}

	for i, lc := range sc.Lights {
		lt, ok := lightNames[lc.Type]
		if !ok {
			return State{}, fmt.Errorf("light %d: unknown type %q", i, lc.Type)
		}
		st.Lights = append(st.Lights, Light{
			Type:     lt,
			Color:    vec3(lc.Color).Vec4(1),
			Function: vec3(lc.Function),
			Pos:      vec3(lc.Pos).Vec4(1),
			Dir:      vec3(lc.Dir).Vec4(0),
			Angle:    lc.Angle,
			Penumbra: lc.Penumbra,
		})
	}

	for i, shc := range sc.Shapes {
		pt, ok := primitiveNames[shc.Type]
		if !ok {
			return State{}, fmt.Errorf("shape %d: unknown type %q", i, shc.Type)
		}
		scale := vec3(shc.Scale)
		if scale == (mgl32.Vec3{}) {
			scale = mgl32.Vec3{1, 1, 1}
		}
		ctm := mgl32.Translate3D(shc.Translate[0], shc.Translate[1], shc.Translate[2]).
			Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
		st.Shapes = append(st.Shapes, Shape{Type: pt, CTM: ctm})
	}

	return st, nil
}

// Origin returns the world-space position of the shape's local origin.
func (s Shape) Origin() mgl32.Vec3 {
	return s.CTM.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

func vec3(a [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{a[0], a[1], a[2]}
}
