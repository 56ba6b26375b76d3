// Command framedump renders a single view of a generated maze to a PNG.
// It is useful for checking lighting changes without opening a window.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/game"
	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render/raycast"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

func main() {
	out := flag.String("out", "frame.png", "Output PNG path")
	width := flag.Int("width", 640, "Frame width in pixels")
	height := flag.Int("height", 360, "Frame height in pixels")
	mazeSize := flag.Int("maze", 51, "Maze width and height in cells")
	seed := flag.Uint("seed", 1, "Maze seed, 0 for random")
	quality := flag.String("quality", "high", "Lighting quality: low, medium or high")
	workers := flag.Int("workers", 0, "Column workers, 0 = one per CPU")
	battery := flag.Float64("battery", 100, "Flashlight battery percent")
	angle := flag.Float64("angle", 0, "Facing angle in radians")
	flag.Parse()

	logger.Init(os.Stderr)

	if err := run(*out, *width, *height, *mazeSize, uint32(*seed), *quality, *workers, *battery, *angle); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Fatal("Frame dump failed")
	}
}

func run(out string, width, height, size int, seed uint32, qualityName string, workers int, battery, angle float64) error {
	q, err := raycast.ParseQuality(qualityName)
	if err != nil {
		return err
	}

	view := raycast.DefaultConfig(width, height)
	view.Quality = q

	s, err := game.NewSession(game.SessionConfig{
		Maze: maze.Config{Width: size, Height: size, Seed: seed},
		View: view,
	}, nil)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s.View.SetWorkers(workers)
	s.Lights.SetBattery(battery)
	s.Player.Pose.SetAngle(angle)
	s.Lights.UpdateVisibleLights(s.Player.Pose)

	start := time.Now()
	frame := s.Render()
	elapsed := time.Since(start)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := png.Encode(f, frame.Image()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}

	telemetry := s.Lights.Telemetry()
	logger.Log.WithFields(logrus.Fields{
		"out":            out,
		"seed":           s.Seed(),
		"quality":        q.String(),
		"render_time":    elapsed,
		"visible_lights": telemetry.VisibleLights,
		"battery":        telemetry.Battery,
	}).Info("Wrote frame")
	return nil
}
