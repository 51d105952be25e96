// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tick      TickConfig      `yaml:"tick"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Particles ParticlesConfig `yaml:"particles"`
	Sun       SunConfig       `yaml:"sun"`
	Camera    CameraConfig    `yaml:"camera"`
	LOD       LODConfig       `yaml:"lod"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scene     SceneConfig     `yaml:"scene"`
	Settings  Settings        `yaml:"settings"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TickConfig holds the fixed-rate driver parameters.
type TickConfig struct {
	Rate int `yaml:"rate"` // ticks per second (~30)
}

// TerrainConfig holds terrain and snow accumulation parameters.
// Mesh resolution, noise table size and seed are fixed in code.
type TerrainConfig struct {
	AccumulateRate float64 `yaml:"accumulate_rate"` // world height per settled flake
}

// ParticlesConfig holds snow particle pool parameters.
type ParticlesConfig struct {
	DefaultCapacity int     `yaml:"default_capacity"`
	ReinitThreshold int     `yaml:"reinit_threshold"` // pool rebuilt only when intensity moves by more than this
	MaxStaticSnow   int     `yaml:"max_static_snow"`  // cap on settled snow instances
	Scale           float64 `yaml:"scale"`            // model-matrix scale of a flake
	CollisionCeil   float64 `yaml:"collision_ceil"`   // particles at or above this height skip the terrain test
	KillFloor       float64 `yaml:"kill_floor"`       // particles below this height are grounded
	SettleOffset    float64 `yaml:"settle_offset"`    // lift applied to settled snow above the surface
}

// SunConfig holds day/night cycle parameters.
type SunConfig struct {
	RotationSpeed float64 `yaml:"rotation_speed"` // degrees per frame
}

// CameraConfig holds camera projection and input parameters.
type CameraConfig struct {
	HeightAngle      float64 `yaml:"height_angle"` // vertical field of view in degrees
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
}

// LODConfig holds adaptive level-of-detail parameters.
type LODConfig struct {
	ComplexityThreshold int `yaml:"complexity_threshold"` // shape count above which complexity scaling kicks in
	MinParam1           int `yaml:"min_param1"`
	MinParam2           int `yaml:"min_param2"`
	MinDistanceParam    int `yaml:"min_distance_param"`
	MinSphereParam1     int `yaml:"min_sphere_param1"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds between stats records
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// SceneConfig describes the scene used by the headless driver.
type SceneConfig struct {
	Camera CameraPoseConfig `yaml:"camera"`
	Lights []LightConfig    `yaml:"lights"`
	Shapes []ShapeConfig    `yaml:"shapes"`
}

// CameraPoseConfig holds the initial camera pose.
type CameraPoseConfig struct {
	Pos  [3]float32 `yaml:"pos"`
	Look [3]float32 `yaml:"look"`
	Up   [3]float32 `yaml:"up"`
}

// LightConfig describes a single scene light.
type LightConfig struct {
	Type     string     `yaml:"type"` // directional, point, spot
	Color    [3]float32 `yaml:"color"`
	Pos      [3]float32 `yaml:"pos"`
	Dir      [3]float32 `yaml:"dir"`
	Function [3]float32 `yaml:"function"` // attenuation coefficients
	Angle    float32    `yaml:"angle"`
	Penumbra float32    `yaml:"penumbra"`
}

// ShapeConfig describes a primitive placed in the scene.
type ShapeConfig struct {
	Type      string     `yaml:"type"` // cube, cone, cylinder, sphere, mesh
	Translate [3]float32 `yaml:"translate"`
	Scale     [3]float32 `yaml:"scale"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32             float32 // seconds per tick as float32
	AccumulateRate32 float32
	Aspect           float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Settings = cfg.Settings.Clamp()
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Tick.Rate <= 0 {
		c.Tick.Rate = 30
	}
	c.Derived.DT32 = 1 / float32(c.Tick.Rate)
	c.Derived.AccumulateRate32 = float32(c.Terrain.AccumulateRate)

	c.Derived.Aspect = 1
	if c.Screen.Height > 0 {
		c.Derived.Aspect = float32(c.Screen.Width) / float32(c.Screen.Height)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
