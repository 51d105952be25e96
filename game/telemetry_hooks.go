package game

import "log/slog"

// flushTelemetry closes the current stats window when it is complete,
// logging and writing it along with the perf stats.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.particles.Len(), len(g.staticSnow), g.grid.Texture())
	perfStats := g.perfCollector.Stats()

	if g.opts.LogStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "stats", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteSnow(stats); err != nil {
			slog.Error("failed to write snow stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
