package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/snowscape/config"
)

func TestPercentile(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty slice, got %f", got)
	}

	sorted := []float64{1, 2, 3, 4, 5}
	if got := Percentile(sorted, 0); got != 1 {
		t.Errorf("p0: expected 1, got %f", got)
	}
	if got := Percentile(sorted, 1); got != 5 {
		t.Errorf("p100: expected 5, got %f", got)
	}
	if got := Percentile(sorted, 0.5); got < 2 || got > 4 {
		t.Errorf("p50: expected near the middle, got %f", got)
	}
}

func TestComputeGridStats(t *testing.T) {
	counts := make([]uint32, 100)
	counts[0] = 10
	counts[1] = 5
	counts[99] = 1

	gs := ComputeGridStats(counts)

	if gs.Total != 16 {
		t.Errorf("expected total 16, got %f", gs.Total)
	}
	if gs.Max != 10 {
		t.Errorf("expected max 10, got %f", gs.Max)
	}
	if gs.Covered != 3 {
		t.Errorf("expected 3 covered cells, got %d", gs.Covered)
	}
	if math.Abs(gs.Mean-0.16) > 1e-9 {
		t.Errorf("expected mean 0.16, got %f", gs.Mean)
	}
	if gs.Std <= 0 {
		t.Errorf("expected positive std, got %f", gs.Std)
	}
	if gs.P50 != 0 {
		t.Errorf("expected median 0 on a mostly empty grid, got %f", gs.P50)
	}
}

func TestComputeGridStatsEmpty(t *testing.T) {
	gs := ComputeGridStats(nil)
	if gs != (GridStats{}) {
		t.Errorf("expected zero stats, got %+v", gs)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 1.0/30)

	if c.ShouldFlush(29) {
		t.Error("expected no flush before 30 ticks")
	}
	if !c.ShouldFlush(30) {
		t.Error("expected flush at 30 ticks")
	}

	c.RecordSettle(4, 1)
	c.RecordSettle(2, 0)
	c.RecordReinit()
	c.RecordRegenerate()

	stats := c.Flush(30, 1000, 6, []uint32{3, 3, 0})
	if stats.Landed != 6 || stats.Fallen != 1 {
		t.Errorf("expected landed 6 fallen 1, got %d %d", stats.Landed, stats.Fallen)
	}
	if stats.Reinits != 1 || stats.Regenerated != 1 {
		t.Errorf("expected one reinit and one regeneration, got %d %d", stats.Reinits, stats.Regenerated)
	}
	if stats.GridTotal != 6 || stats.CoveredCells != 2 {
		t.Errorf("expected grid total 6 over 2 cells, got %f %d", stats.GridTotal, stats.CoveredCells)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("expected sim time 1s, got %f", stats.SimTimeSec)
	}

	// Counters reset for the next window
	next := c.Flush(60, 1000, 6, nil)
	if next.Landed != 0 || next.WindowStartTick != 30 {
		t.Errorf("expected fresh window from tick 30, got %+v", next)
	}
}

func TestOutputManager(t *testing.T) {
	if om, err := NewOutputManager(""); om != nil || err != nil {
		t.Fatalf("expected disabled manager for empty dir, got %v %v", om, err)
	}

	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(1); i <= 2; i++ {
		if err := om.WriteSnow(WindowStats{WindowEndTick: i * 30, Landed: int(i)}); err != nil {
			t.Fatalf("WriteSnow: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, i*30); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "snow.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("expected header row, got %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}
