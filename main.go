package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/snowscape/config"
	"github.com/pthm-cable/snowscape/game"
	"github.com/pthm-cable/snowscape/scene"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	heightmap := flag.String("heightmap", "", "Heightmap image (overrides config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	realtime := flag.Bool("realtime", false, "Pace ticks at the configured rate instead of running flat out")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *heightmap != "" {
		cfg.Settings.HeightmapPath = *heightmap
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	st, err := scene.FromConfig(cfg.Scene, cfg.Camera.HeightAngle)
	if err != nil {
		slog.Error("invalid scene", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Workers:        *workers,
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()
	g.LoadScene(st)

	slog.Info("starting simulation",
		"seed", rngSeed,
		"tick_rate", cfg.Tick.Rate,
		"max_ticks", *maxTicks,
		"heightmap", cfg.Settings.HeightmapPath,
		"output_dir", *outputDir,
	)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Duration(float64(time.Second) * float64(cfg.Derived.DT32)))
		defer ticker.Stop()
	}

	clock := newStepClock(cfg.Derived.DT32, *realtime, time.Now())
	for {
		select {
		case <-interrupt:
			slog.Info("interrupted", "tick", g.TickCount())
			return
		default:
		}

		if ticker != nil {
			<-ticker.C
		}
		g.Tick(clock.next(time.Now()))

		if *maxTicks > 0 && int(g.TickCount()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.TickCount(), "perf", g.PerfStats())
			return
		}
	}
}

// stepClock hands out the dt for each tick. Flat-out runs use the fixed
// step; paced runs use the measured wall-clock delta since the last tick.
type stepClock struct {
	fixed float32
	paced bool
	last  time.Time
}

func newStepClock(fixed float32, paced bool, start time.Time) *stepClock {
	return &stepClock{fixed: fixed, paced: paced, last: start}
}

func (c *stepClock) next(now time.Time) float32 {
	if !c.paced {
		return c.fixed
	}
	dt := float32(now.Sub(c.last).Seconds())
	c.last = now
	return dt
}
