package game

import "github.com/pthm-cable/snowscape/camera"

// PressKey marks a movement key as held.
func (g *Game) PressKey(k camera.Key) {
	g.camera.Press(k)
}

// ReleaseKey marks a movement key as released.
func (g *Game) ReleaseKey(k camera.Key) {
	g.camera.Release(k)
}

// Drag turns the camera for a mouse move of (dx, dy) pixels while the
// button is held.
func (g *Game) Drag(dx, dy float32) {
	g.camera.Drag(dx, dy, float32(g.cfg.Camera.MouseSensitivity))
}
