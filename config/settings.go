package config

// Settings is the live, user-adjustable control surface.
// The orchestrator holds the last-applied snapshot and diffs new values
// against it each tick.
type Settings struct {
	HeightmapPath string `yaml:"heightmap_path"`

	Snow       bool `yaml:"snow"`       // particle simulation enabled
	Sun        bool `yaml:"sun"`        // continuous sun rotation
	Accumulate bool `yaml:"accumulate"` // emit static snow for grounded flakes
	Increase   bool `yaml:"increase"`   // raise terrain by accumulated snow

	ComplexityLOD bool `yaml:"complexity_lod"`
	DistanceLOD   bool `yaml:"distance_lod"`

	Bumpiness       int `yaml:"bumpiness"` // noise octaves, 1-6
	Intensity       int `yaml:"intensity"` // particle pool size, 50-200
	Speed           int `yaml:"speed"`     // particle/camera multiplier, 1-25
	Time            int `yaml:"time"`      // hour of day, 0-23
	ShapeParameter2 int `yaml:"shape_parameter2"`

	NearPlane float32 `yaml:"near_plane"`
	FarPlane  float32 `yaml:"far_plane"`
}

// Settings ranges.
const (
	MinBumpiness = 1
	MaxBumpiness = 6
	MinIntensity = 50
	MaxIntensity = 200
	MinSpeed     = 1
	MaxSpeed     = 25
	MinTime      = 0
	MaxTime      = 23
)

// Clamp returns a copy with every ranged field forced into its documented range.
func (s Settings) Clamp() Settings {
	s.Bumpiness = clampInt(s.Bumpiness, MinBumpiness, MaxBumpiness)
	s.Intensity = clampInt(s.Intensity, MinIntensity, MaxIntensity)
	s.Speed = clampInt(s.Speed, MinSpeed, MaxSpeed)
	s.Time = clampInt(s.Time, MinTime, MaxTime)
	if s.ShapeParameter2 < 1 {
		s.ShapeParameter2 = 1
	}
	return s
}

// SettingsDiff records which derived state must be rebuilt after a settings change.
type SettingsDiff struct {
	Intensity  bool // pool size moved past the reinit threshold
	Terrain    bool // bumpiness or heightmap changed
	Heightmap  bool // heightmap path changed
	SunToggled bool // continuous rotation switched on or off
	Time       bool // time of day changed
	Projection bool // near or far plane changed
}

// Any reports whether anything changed.
func (d SettingsDiff) Any() bool {
	return d.Intensity || d.Terrain || d.Heightmap || d.SunToggled || d.Time || d.Projection
}

// Diff compares s against the previously applied snapshot prev.
// poolSize is the current particle pool size; the intensity change is only
// reported when it differs from poolSize by more than reinitThreshold.
func (s Settings) Diff(prev Settings, poolSize, reinitThreshold int) SettingsDiff {
	var d SettingsDiff

	delta := poolSize - s.Intensity
	if delta < 0 {
		delta = -delta
	}
	d.Intensity = delta > reinitThreshold

	d.Heightmap = s.HeightmapPath != prev.HeightmapPath
	d.Terrain = d.Heightmap || s.Bumpiness != prev.Bumpiness
	d.SunToggled = s.Sun != prev.Sun
	d.Time = s.Time != prev.Time
	d.Projection = s.NearPlane != prev.NearPlane || s.FarPlane != prev.FarPlane

	return d
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
