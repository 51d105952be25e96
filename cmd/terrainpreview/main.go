// Terrain preview tool - top-down view of the heightfield, the falling snow
// and the accumulation grid, with sliders for the live settings.
//
// Usage: go run ./cmd/terrainpreview -heightmap path/to/height.png
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/snowscape/config"
	"github.com/pthm-cable/snowscape/game"
	"github.com/pthm-cable/snowscape/scene"
	"github.com/pthm-cable/snowscape/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	heightmap := flag.String("heightmap", "", "Heightmap image (overrides config)")
	seed := flag.Int64("seed", 1, "Particle RNG seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *heightmap != "" {
		cfg.Settings.HeightmapPath = *heightmap
	}

	st, err := scene.FromConfig(cfg.Scene, cfg.Camera.HeightAngle)
	if err != nil {
		slog.Error("invalid scene", "error", err)
		os.Exit(1)
	}

	g, err := game.NewGame(cfg, game.Options{Seed: *seed})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()
	g.LoadScene(st)

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Tick.Rate))

	const gridSize = systems.GridResolution
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	heights := make([]float32, gridSize*gridSize)
	needsRegen := true
	showGrid := true
	paused := false

	for !rl.WindowShouldClose() {
		if !paused {
			if f := g.Tick(cfg.Derived.DT32); f.TerrainRegenerated {
				needsRegen = true
			}
		}

		if needsRegen {
			sampleHeights(heights, g.Terrain(), g.Settings().Bumpiness)
			needsRegen = false
		}

		// Edit the settings the next tick will run with, not the applied ones.
		before := g.NextSettings()
		s := before

		var counts []uint32
		if showGrid {
			counts = g.Grid().Texture()
		}
		updateTexture(texture, heights, counts)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Heightfield and accumulation, world x to the right, world z down
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Falling flakes
		if g.Settings().Snow {
			for _, p := range g.Particles().Particles() {
				x, y, z := p.Position[0], p.Position[1], p.Position[2]
				if !systems.InBounds(x, z) {
					continue
				}
				shade := uint8(255 - min(200, int(max(0, y)*60)))
				rl.DrawCircle(int32(10+x*previewSize), int32(10+z*previewSize), 2, color.RGBA{R: shade, G: shade, B: 255, A: 255})
			}
		}

		grid := g.Grid()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Tick: %d  Flakes: %d  Static: %d", g.TickCount(), g.Particles().Len(), g.StaticSnow()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Settled: %d  Deepest cell: %d", grid.Total(), grid.Max()), 15, statsY+20, 16, rl.DarkGray)
		sun := g.Sun().Direction
		rl.DrawText(fmt.Sprintf("Sun: (%.2f, %.2f, %.2f)", sun[0], sun[1], sun[2]), 15, statsY+40, 16, rl.DarkGray)
		if !g.Terrain().Loaded() {
			rl.DrawText("No heightmap loaded - terrain is flat", 15, statsY+60, 16, rl.Maroon)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Snow Settings", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Bumpiness slider
		rl.DrawText("Bumpiness (noise octaves)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBump := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "6",
			float32(s.Bumpiness), config.MinBumpiness, config.MaxBumpiness,
		)
		rl.DrawText(fmt.Sprintf("%d", s.Bumpiness), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		s.Bumpiness = int(newBump)
		panelY += 35

		// Intensity slider
		rl.DrawText("Intensity (flake count)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newIntensity := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"50", "200",
			float32(s.Intensity), config.MinIntensity, config.MaxIntensity,
		)
		rl.DrawText(fmt.Sprintf("%d", s.Intensity), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		s.Intensity = int(newIntensity)
		panelY += 35

		// Speed slider
		rl.DrawText("Speed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSpeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "25",
			float32(s.Speed), config.MinSpeed, config.MaxSpeed,
		)
		rl.DrawText(fmt.Sprintf("%d", s.Speed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		s.Speed = int(newSpeed)
		panelY += 35

		// Time of day slider
		rl.DrawText("Time of day", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newTime := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "23",
			float32(s.Time), config.MinTime, config.MaxTime,
		)
		rl.DrawText(fmt.Sprintf("%d:00", s.Time), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		s.Time = int(newTime)
		panelY += 45

		// Toggles
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(s.Snow, "Snow: on", "Snow: off")) {
			s.Snow = !s.Snow
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(s.Sun, "Sun: on", "Sun: off")) {
			s.Sun = !s.Sun
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(s.Accumulate, "Accumulate: on", "Accumulate: off")) {
			s.Accumulate = !s.Accumulate
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(s.Increase, "Increase: on", "Increase: off")) {
			s.Increase = !s.Increase
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showGrid, "Hide Grid", "Show Grid")) {
			showGrid = !showGrid
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset Scene") {
			g.LoadScene(st)
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Settings:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlLines := settingsYAML(s)
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			out := ""
			for _, line := range yamlLines {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()

		if s != before {
			g.SetSettings(s)
		}
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func settingsYAML(s config.Settings) []string {
	return []string{
		"settings:",
		fmt.Sprintf("  snow: %t", s.Snow),
		fmt.Sprintf("  sun: %t", s.Sun),
		fmt.Sprintf("  accumulate: %t", s.Accumulate),
		fmt.Sprintf("  increase: %t", s.Increase),
		fmt.Sprintf("  bumpiness: %d", s.Bumpiness),
		fmt.Sprintf("  intensity: %d", s.Intensity),
		fmt.Sprintf("  speed: %d", s.Speed),
		fmt.Sprintf("  time: %d", s.Time),
	}
}

// sampleHeights fills heights with the terrain surface at each grid cell
// centre, in the same row-major layout as the accumulation grid.
func sampleHeights(heights []float32, t *systems.TerrainMesh, bump int) {
	const n = systems.GridResolution
	for row := 0; row < n; row++ {
		z := (float32(row) + 0.5) / n
		for col := 0; col < n; col++ {
			x := (float32(col) + 0.5) / n
			heights[row*n+col] = t.WorldHeight(x, z, bump)
		}
	}
}

// updateTexture shades heights from dark green to light brown and blends
// accumulated snow toward white.
func updateTexture(texture rl.Texture2D, heights []float32, counts []uint32) {
	lo, hi := heights[0], heights[0]
	for _, h := range heights {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var deepest uint32 = 1
	for _, c := range counts {
		deepest = max(deepest, c)
	}

	pixels := make([]color.RGBA, len(heights))
	for i, h := range heights {
		t := (h - lo) / span
		r := 40 + t*120
		g := 70 + t*90
		b := 30 + t*60

		if counts != nil && counts[i] > 0 {
			snow := 0.3 + 0.7*float32(counts[i])/float32(deepest)
			r += (255 - r) * snow
			g += (255 - g) * snow
			b += (255 - b) * snow
		}
		pixels[i] = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
