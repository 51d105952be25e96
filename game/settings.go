package game

import (
	"log/slog"

	"github.com/pthm-cable/snowscape/config"
)

// SetSettings queues s to be applied at the start of the next tick.
// Only the latest queued value is kept.
func (g *Game) SetSettings(s config.Settings) {
	s = s.Clamp()
	g.pending = &s
}

// NextSettings returns the settings the next tick will run with: the
// queued value if there is one, otherwise the last-applied settings.
// Callers that edit settings every frame should start from this value.
func (g *Game) NextSettings() config.Settings {
	if g.pending != nil {
		return *g.pending
	}
	return g.settings
}

// ApplySettings applies s immediately and returns what was rebuilt.
// Derived state is only touched for the fields that changed.
func (g *Game) ApplySettings(s config.Settings) config.SettingsDiff {
	s = s.Clamp()
	prev := g.settings
	d := s.Diff(prev, g.particles.Len(), g.cfg.Particles.ReinitThreshold)
	g.settings = s

	if d.Intensity {
		g.particles.UpdateNum(s.Intensity)
		g.collector.RecordReinit()
		slog.Info("particle pool rebuilt", "size", s.Intensity)
	}

	if d.Terrain {
		if g.loaded {
			g.regenerateTerrain()
			slog.Info("terrain regenerated",
				"bumpiness", s.Bumpiness,
				"heightmap", s.HeightmapPath,
				"loaded", g.terrain.Loaded(),
			)
		}
		g.camera.SetPlanes(s.NearPlane, s.FarPlane)
	}

	if d.SunToggled {
		g.sun.Capture()
	}

	if d.Time {
		g.sun.SetTimeOfDay(s.Time)
	}

	if d.Projection {
		g.camera.SetPlanes(s.NearPlane, s.FarPlane)
	}

	return d
}

// applyPending applies the queued settings, if any.
func (g *Game) applyPending() {
	if g.pending == nil {
		return
	}
	s := *g.pending
	g.pending = nil
	g.ApplySettings(s)
}
