package telemetry

import "math"

// Collector accumulates snow events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	landed      int
	fallen      int
	reinits     int
	regenerated int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSettle records the outcome of one collision pass.
func (c *Collector) RecordSettle(landed, fallen int) {
	c.landed += landed
	c.fallen += fallen
}

// RecordReinit records a particle pool rebuild.
func (c *Collector) RecordReinit() {
	c.reinits++
}

// RecordRegenerate records a terrain rebuild.
func (c *Collector) RecordRegenerate() {
	c.regenerated++
}

// ShouldFlush reports whether the current window is complete at tick.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces stats for the window ending at tick and starts a new window.
func (c *Collector) Flush(tick int64, particles, staticSnow int, counts []uint32) WindowStats {
	gs := ComputeGridStats(counts)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * float64(c.dt),
		Particles:       particles,
		StaticSnow:      staticSnow,
		Landed:          c.landed,
		Fallen:          c.fallen,
		Reinits:         c.reinits,
		Regenerated:     c.regenerated,
		GridTotal:       gs.Total,
		GridMax:         gs.Max,
		CoveredCells:    gs.Covered,
		CellMean:        gs.Mean,
		CellStd:         gs.Std,
		CellP50:         gs.P50,
		CellP90:         gs.P90,
		CellP99:         gs.P99,
	}

	c.windowStartTick = tick
	c.landed = 0
	c.fallen = 0
	c.reinits = 0
	c.regenerated = 0

	return stats
}

// Reset discards the current window and restarts counting from tick 0.
func (c *Collector) Reset() {
	c.windowStartTick = 0
	c.landed = 0
	c.fallen = 0
	c.reinits = 0
	c.regenerated = 0
}
