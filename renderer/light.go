package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/scene"
)

// MaxLights is the number of light slots the shaders expose.
const MaxLights = 8

// LightDisabled marks an unused light slot.
const LightDisabled scene.LightType = -1

// LightSlot is one shader light uniform set.
type LightSlot struct {
	Type      scene.LightType
	Color     mgl32.Vec3
	Direction mgl32.Vec3
	Position  mgl32.Vec3
	Function  mgl32.Vec3
	Angle     float32
	Penumbra  float32
}

// BindLights fills the light slots from the first MaxLights scene lights
// in order. Directional lights are driven by the sun. Unused slots are
// disabled with zeroed color, direction and position.
func BindLights(lights []scene.Light, sun *Sun) [MaxLights]LightSlot {
	var slots [MaxLights]LightSlot

	n := min(len(lights), MaxLights)
	for i := 0; i < n; i++ {
		l := lights[i]
		slot := LightSlot{Type: l.Type}

		switch l.Type {
		case scene.LightDirectional:
			slot.Color = sun.Color()
			slot.Direction = sun.Direction
		case scene.LightPoint:
			slot.Color = l.Color.Vec3()
			slot.Position = l.Pos.Vec3()
			slot.Function = l.Function
		case scene.LightSpot:
			slot.Color = l.Color.Vec3()
			slot.Direction = l.Dir.Vec3()
			slot.Position = l.Pos.Vec3()
			slot.Angle = l.Angle
			slot.Penumbra = l.Penumbra
			slot.Function = l.Function
		}
		slots[i] = slot
	}

	for i := n; i < MaxLights; i++ {
		slots[i] = LightSlot{Type: LightDisabled}
	}
	return slots
}
