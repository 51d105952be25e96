package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated snow statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool state at window end
	Particles  int `csv:"particles"`
	StaticSnow int `csv:"static_snow"`

	// Events during window
	Landed      int `csv:"landed"`
	Fallen      int `csv:"fallen"`
	Reinits     int `csv:"reinits"`
	Regenerated int `csv:"regenerated"`

	// Accumulation grid at window end
	GridTotal    float64 `csv:"grid_total"`
	GridMax      float64 `csv:"grid_max"`
	CoveredCells int     `csv:"covered_cells"`
	CellMean     float64 `csv:"cell_mean"`
	CellStd      float64 `csv:"cell_std"`
	CellP50      float64 `csv:"cell_p50"`
	CellP90      float64 `csv:"cell_p90"`
	CellP99      float64 `csv:"cell_p99"`
}

// GridStats summarizes accumulation counts.
type GridStats struct {
	Total   float64
	Max     float64
	Covered int // cells with at least one flake
	Mean    float64
	Std     float64
	P50     float64
	P90     float64
	P99     float64
}

// Percentile returns the p-th quantile of sorted values, p in [0, 1].
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// ComputeGridStats calculates totals, spread and percentiles over counts.
func ComputeGridStats(counts []uint32) GridStats {
	if len(counts) == 0 {
		return GridStats{}
	}

	values := make([]float64, len(counts))
	var gs GridStats
	for i, c := range counts {
		values[i] = float64(c)
		if c > 0 {
			gs.Covered++
		}
	}

	gs.Total = floats.Sum(values)
	gs.Max = floats.Max(values)
	gs.Mean, gs.Std = stat.PopMeanStdDev(values, nil)

	sort.Float64s(values)
	gs.P50 = Percentile(values, 0.50)
	gs.P90 = Percentile(values, 0.90)
	gs.P99 = Percentile(values, 0.99)

	return gs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("static_snow", s.StaticSnow),
		slog.Int("landed", s.Landed),
		slog.Int("fallen", s.Fallen),
		slog.Float64("grid_total", s.GridTotal),
		slog.Float64("grid_max", s.GridMax),
		slog.Int("covered_cells", s.CoveredCells),
		slog.Float64("cell_p90", s.CellP90),
	)
}
