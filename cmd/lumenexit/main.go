package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/config"
	"chosenoffset.com/lumenexit/internal/game"
	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render"
	ebitenrender "chosenoffset.com/lumenexit/internal/render/ebiten"
	"chosenoffset.com/lumenexit/internal/render/raycast"
	"chosenoffset.com/lumenexit/internal/render/terminal"
)

func main() {
	// Command-line flags
	backendName := flag.String("backend", "ebiten", "Display backend: ebiten or terminal")
	configPath := flag.String("config", config.DefaultPath(), "Settings file (created on first best time)")
	seed := flag.Uint("seed", 0, "Maze seed, 0 for a random maze each game")
	quality := flag.String("quality", "", "Lighting quality: low, medium or high")
	workers := flag.Int("workers", -1, "Column workers, 0 = one per CPU")
	logFile := flag.String("log", "lumenexit.log", "Log file for the terminal backend")
	flag.Parse()

	if *backendName == "terminal" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Init(os.Stderr)
			logger.Log.WithFields(logrus.Fields{"error": err, "path": *logFile}).Fatal("Failed to open log file")
		}
		defer f.Close()
		logger.Init(f)
	} else {
		logger.Init(os.Stderr)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err, "path": *configPath}).Fatal("Failed to load config")
	}

	if *seed != 0 {
		cfg.Gameplay.Seed = uint32(*seed)
	}
	if *quality != "" {
		q, err := raycast.ParseQuality(*quality)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err}).Fatal("Invalid -quality")
		}
		cfg.Graphics.LightingQuality = q.String()
	}
	if *workers >= 0 {
		cfg.Graphics.Workers = *workers
	}

	var backend render.Backend
	switch *backendName {
	case "ebiten":
		backend = ebitenrender.NewBackend()
		if fs, ok := backend.Engine.(interface{ SetFullscreen(bool) }); ok && cfg.Video.Fullscreen {
			fs.SetFullscreen(true)
		}
	case "terminal":
		backend, _ = terminal.NewBackend()
		// One terminal cell is already a coarse pixel
		cfg.Video.RenderScale = 1
	default:
		logger.Log.WithFields(logrus.Fields{"backend": *backendName}).Fatal("Unknown backend")
	}

	screenWidth := cfg.Video.ScreenWidth
	screenHeight := cfg.Video.ScreenHeight

	gameManager := game.NewManager(backend.Renderer, backend.Input, cfg, *configPath, screenWidth, screenHeight)

	// Set up the window
	backend.Engine.SetWindowSize(screenWidth, screenHeight)
	backend.Engine.SetWindowTitle("Lumen Exit")
	backend.Engine.SetWindowResizable(true)

	logger.Log.WithFields(logrus.Fields{
		"backend": *backendName,
		"quality": cfg.Quality().String(),
		"workers": cfg.Workers(),
		"seed":    cfg.Gameplay.Seed,
	}).Info("Starting game")

	if err := backend.Engine.RunGame(gameManager); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Fatal("Game loop failed")
	}
}
