package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/renderer"
	"github.com/pthm-cable/snowscape/systems"
	"github.com/pthm-cable/snowscape/telemetry"
)

// Tick advances the scene by dt seconds and returns the frame to draw.
// Before a scene is loaded only settings are applied and an empty frame
// is returned.
func (g *Game) Tick(dt float32) *renderer.Frame {
	g.perfCollector.StartTick()
	defer g.perfCollector.EndTick()

	g.perfCollector.StartPhase(telemetry.PhaseSettings)
	g.applyPending()

	if !g.loaded {
		return &renderer.Frame{Tick: g.tick}
	}

	s := g.settings
	scaled := dt * float32(s.Speed)

	g.tick++
	if s.Snow {
		g.snowTimer++
	}
	if s.Sun {
		g.sunTimer++
	}

	// Flakes keep moving while snow is off; only collision is gated.
	g.perfCollector.StartPhase(telemetry.PhaseParticles)
	g.particles.Update(scaled)

	var landed, fallen int
	if s.Snow {
		g.perfCollector.StartPhase(telemetry.PhaseSettle)
		res := systems.Settle(g.particles, g.terrain, g.grid, g.settleOptions())
		landed, fallen = res.Landed, res.Fallen
		g.addStaticSnow(res.Static)
	}
	g.collector.RecordSettle(landed, fallen)

	g.perfCollector.StartPhase(telemetry.PhaseSun)
	g.sun.Advance(s.Sun)

	g.perfCollector.StartPhase(telemetry.PhaseCamera)
	g.camera.Integrate(scaled)

	g.perfCollector.StartPhase(telemetry.PhaseFrame)
	f := g.buildFrame()

	g.flushTelemetry()
	return f
}

// settleOptions maps the current settings and config onto the collision pass.
func (g *Game) settleOptions() systems.SettleOptions {
	p := g.cfg.Particles
	return systems.SettleOptions{
		Bump:           g.settings.Bumpiness,
		Accumulate:     g.settings.Accumulate,
		Increase:       g.settings.Increase,
		AccumulateRate: g.cfg.Derived.AccumulateRate32,
		Ceil:           float32(p.CollisionCeil),
		KillFloor:      float32(p.KillFloor),
		Offset:         float32(p.SettleOffset),
	}
}

// addStaticSnow keeps newly settled flakes up to the configured cap.
func (g *Game) addStaticSnow(static []mgl32.Mat4) {
	room := g.cfg.Particles.MaxStaticSnow - len(g.staticSnow)
	if room <= 0 {
		return
	}
	if len(static) > room {
		static = static[:room]
	}
	g.staticSnow = append(g.staticSnow, static...)
}

// lodOptions maps the current settings and config onto adaptive LOD.
func (g *Game) lodOptions() systems.LODOptions {
	l := g.cfg.LOD
	return systems.LODOptions{
		Complexity:          g.settings.ComplexityLOD,
		Distance:            g.settings.DistanceLOD,
		ComplexityThreshold: l.ComplexityThreshold,
		MinParam1:           l.MinParam1,
		MinParam2:           l.MinParam2,
		MinDistanceParam:    l.MinDistanceParam,
		MinSphereParam1:     l.MinSphereParam1,
	}
}

// buildFrame snapshots everything the renderer needs for this tick.
func (g *Game) buildFrame() *renderer.Frame {
	s := g.settings
	f := &renderer.Frame{
		Tick:           g.tick,
		Quad:           g.quad,
		View:           g.camera.View(),
		Projection:     g.camera.Projection(),
		CameraPos:      g.camera.Pos.Vec4(1),
		Lights:         renderer.BindLights(g.scene.Lights, g.sun),
		SunDirection:   g.sun.Direction,
		SunColor:       g.sun.Color(),
		Accumulation:   g.grid.Texture(),
		Accumulate:     s.Accumulate,
		Increase:       s.Increase,
		AccumulateRate: g.cfg.Derived.AccumulateRate32,
		SnowTimer:      g.snowTimer,
		SunTimer:       g.sunTimer,
	}

	if g.terrainDirty {
		f.Terrain = g.terrainVerts
		f.TerrainRegenerated = true
		g.terrainDirty = false
	}

	if s.Snow {
		f.Particles = g.particles.ModelMatrices()
		f.Positions = g.particles.Positions()
	}
	if s.Accumulate {
		f.StaticSnow = append(f.StaticSnow, g.staticSnow...)
	}

	base := systems.LOD{Param1: s.Bumpiness, Param2: s.ShapeParameter2}
	f.LOD = systems.ComputeLOD(g.scene.Shapes, g.camera.Pos, base, g.lodOptions())

	return f
}
