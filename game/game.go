// Package game drives the snow scene: it owns every simulation component,
// applies live settings, and produces one renderer.Frame per tick.
package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/snowscape/camera"
	"github.com/pthm-cable/snowscape/config"
	"github.com/pthm-cable/snowscape/renderer"
	"github.com/pthm-cable/snowscape/scene"
	"github.com/pthm-cable/snowscape/systems"
	"github.com/pthm-cable/snowscape/telemetry"
)

// Options configures a Game beyond what config.Config holds.
type Options struct {
	Seed           int64   // particle RNG seed
	LogStats       bool    // log stats windows via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // CSV output directory (empty = disabled)
	Workers        int     // worker pool size (0 = GOMAXPROCS)
}

// Game holds the complete scene state.
type Game struct {
	cfg  *config.Config
	opts Options

	pool      *systems.WorkerPool
	terrain   *systems.TerrainMesh
	grid      *systems.AccumulationGrid
	particles *systems.ParticleSystem
	quad      []float32

	scene  scene.State
	loaded bool
	camera *camera.Camera
	sun    *renderer.Sun

	// Last-applied settings and the value queued for the next tick.
	settings config.Settings
	pending  *config.Settings

	// Terrain vertex buffer, handed to the next frame after a rebuild.
	terrainVerts []float32
	terrainDirty bool

	staticSnow []mgl32.Mat4

	// Frame counters: tick counts every frame, the others only while
	// their effect is enabled.
	tick      int64
	snowTimer int
	sunTimer  int

	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
}

// NewGame creates a game from cfg. The scene is empty until LoadScene.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	pool := systems.NewWorkerPool(opts.Workers)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	g := &Game{
		cfg:           cfg,
		opts:          opts,
		pool:          pool,
		terrain:       systems.NewTerrainMesh(pool),
		grid:          systems.NewAccumulationGrid(),
		particles:     systems.NewParticleSystem(cfg.Particles.DefaultCapacity, opts.Seed, pool),
		quad:          systems.SnowQuad(),
		sun:           renderer.NewSun(float32(cfg.Sun.RotationSpeed)),
		settings:      cfg.Settings,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		outputManager: om,
	}
	g.particles.SetScale(float32(cfg.Particles.Scale))
	g.sun.SetTimeOfDay(cfg.Settings.Time)
	g.camera = camera.New(scene.CameraData{}, cfg.Derived.Aspect, cfg.Settings.NearPlane, cfg.Settings.FarPlane)

	// The pool starts at the default capacity; the initial intensity only
	// replaces it when far enough away.
	g.ApplySettings(cfg.Settings)

	return g, nil
}

// LoadScene replaces the scene: timers, grid and static snow are reset,
// the terrain is regenerated and the camera rebuilt from the scene pose.
func (g *Game) LoadScene(st scene.State) {
	g.scene = st
	g.loaded = true

	g.tick = 0
	g.snowTimer = 0
	g.sunTimer = 0
	g.collector.Reset()

	g.camera = camera.New(st.Camera, g.cfg.Derived.Aspect, g.settings.NearPlane, g.settings.FarPlane)
	g.regenerateTerrain()

	slog.Info("scene loaded",
		"lights", len(st.Lights),
		"shapes", len(st.Shapes),
		"terrain_vertices", g.terrain.Vertices(),
	)
}

// regenerateTerrain rebuilds the mesh from the current heightmap and
// bumpiness, discarding everything that settled on the old surface.
func (g *Game) regenerateTerrain() {
	g.perfCollector.StartPhase(telemetry.PhaseTerrain)
	g.terrainVerts = g.terrain.Generate(g.settings.HeightmapPath, g.settings.Bumpiness)
	g.terrainDirty = true
	g.grid.Reset()
	g.staticSnow = g.staticSnow[:0]
	g.collector.RecordRegenerate()
}

// Settings returns the last-applied settings.
func (g *Game) Settings() config.Settings { return g.settings }

// TickCount returns the number of frames since the scene was loaded.
func (g *Game) TickCount() int64 { return g.tick }

// SnowTimer returns the number of frames the snow has been falling.
func (g *Game) SnowTimer() int { return g.snowTimer }

// SunTimer returns the number of frames the sun has been rotating.
func (g *Game) SunTimer() int { return g.sunTimer }

// Loaded reports whether a scene has been loaded.
func (g *Game) Loaded() bool { return g.loaded }

// Terrain returns the terrain mesh.
func (g *Game) Terrain() *systems.TerrainMesh { return g.terrain }

// Grid returns the accumulation grid.
func (g *Game) Grid() *systems.AccumulationGrid { return g.grid }

// Particles returns the particle system.
func (g *Game) Particles() *systems.ParticleSystem { return g.particles }

// Camera returns the scene camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Sun returns the sun state.
func (g *Game) Sun() *renderer.Sun { return g.sun }

// StaticSnow returns the number of settled snow instances.
func (g *Game) StaticSnow() int { return len(g.staticSnow) }

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// Unload releases the worker pool and closes output files.
func (g *Game) Unload() {
	g.particles.Close()
	g.pool.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
