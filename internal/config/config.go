// Package config holds the player-facing settings and stats. They are
// loaded from a JSON file so a missing or partial file falls back to
// defaults.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/render/raycast"
)

// NoBestTime marks that no run has been completed yet
const NoBestTime = math.MaxFloat64

// Config holds all settings for the game
type Config struct {
	// Window and frame size
	Video VideoConfig `json:"video"`

	// Renderer tuning
	Graphics GraphicsConfig `json:"graphics"`

	// Input tuning
	Controls ControlsConfig `json:"controls"`

	// Maze generation
	Gameplay GameplayConfig `json:"gameplay"`

	// Persisted results
	Stats StatsConfig `json:"stats"`
}

// VideoConfig defines window and render target sizes
type VideoConfig struct {
	ScreenWidth  int  `json:"screen_width"`  // Logical screen width in pixels
	ScreenHeight int  `json:"screen_height"` // Logical screen height in pixels
	RenderScale  int  `json:"render_scale"`  // Raycast at 1/RenderScale resolution, then upscale
	Fullscreen   bool `json:"fullscreen"`
}

// GraphicsConfig defines renderer quality
type GraphicsConfig struct {
	LightingQuality string `json:"lighting_quality"` // "low", "medium" or "high"
	Workers         int    `json:"workers"`          // Column workers, 0 = one per CPU
}

// ControlsConfig defines input sensitivity
type ControlsConfig struct {
	MouseSensitivity float64 `json:"mouse_sensitivity"` // Radians per pixel of mouse travel
	TurnSpeed        float64 `json:"turn_speed"`        // Radians per second for arrow keys
	MouseLook        bool    `json:"mouse_look"`
}

// GameplayConfig defines maze generation
type GameplayConfig struct {
	MazeWidth  int    `json:"maze_width"`
	MazeHeight int    `json:"maze_height"`
	RoomCount  int    `json:"room_count"`
	Seed       uint32 `json:"seed"` // 0 = new random maze each game
}

// StatsConfig holds results kept between runs
type StatsConfig struct {
	BestTime float64 `json:"best_time"` // Seconds, NoBestTime until a run is finished
}

// DefaultConfig returns the default settings
func DefaultConfig() *Config {
	return &Config{
		Video: VideoConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			RenderScale:  2,
		},
		Graphics: GraphicsConfig{
			LightingQuality: raycast.QualityHigh.String(),
			Workers:         0,
		},
		Controls: ControlsConfig{
			MouseSensitivity: 0.001,
			TurnSpeed:        2.5,
			MouseLook:        true,
		},
		Gameplay: GameplayConfig{
			MazeWidth:  51,
			MazeHeight: 51,
			RoomCount:  6,
		},
		Stats: StatsConfig{
			BestTime: NoBestTime,
		},
	}
}

// Load loads the config from a JSON file, starting from defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Validate()
	return config, nil
}

// Save writes the config as indented JSON, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate clamps out-of-range values back into something playable
func (c *Config) Validate() {
	c.Video.ScreenWidth = geom.ClampInt(c.Video.ScreenWidth, 160, 7680)
	c.Video.ScreenHeight = geom.ClampInt(c.Video.ScreenHeight, 120, 4320)
	c.Video.RenderScale = geom.ClampInt(c.Video.RenderScale, 1, 8)

	if _, err := raycast.ParseQuality(c.Graphics.LightingQuality); err != nil {
		c.Graphics.LightingQuality = raycast.QualityHigh.String()
	}
	c.Graphics.Workers = geom.ClampInt(c.Graphics.Workers, 0, 256)

	if c.Controls.MouseSensitivity <= 0 || c.Controls.MouseSensitivity > 0.05 {
		c.Controls.MouseSensitivity = 0.001
	}
	if c.Controls.TurnSpeed <= 0 {
		c.Controls.TurnSpeed = 2.5
	}

	c.Gameplay.MazeWidth = geom.ClampInt(c.Gameplay.MazeWidth, 7, 255)
	c.Gameplay.MazeHeight = geom.ClampInt(c.Gameplay.MazeHeight, 7, 255)
	c.Gameplay.RoomCount = geom.ClampInt(c.Gameplay.RoomCount, 0, 64)

	if c.Stats.BestTime <= 0 {
		c.Stats.BestTime = NoBestTime
	}
}

// Quality returns the configured lighting tier
func (c *Config) Quality() raycast.Quality {
	q, err := raycast.ParseQuality(c.Graphics.LightingQuality)
	if err != nil {
		return raycast.QualityHigh
	}
	return q
}

// Workers returns the configured worker count, resolving 0 to one per CPU
func (c *Config) Workers() int {
	if c.Graphics.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Graphics.Workers
}

// HasBestTime reports whether a run has been completed
func (c *Config) HasBestTime() bool {
	return c.Stats.BestTime < NoBestTime
}

// UpdateBestTime records seconds if it beats the stored best and reports
// whether it did.
func (c *Config) UpdateBestTime(seconds float64) bool {
	if seconds <= 0 || seconds >= c.Stats.BestTime {
		return false
	}
	c.Stats.BestTime = seconds
	return true
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lumenexit.json"
	}
	return filepath.Join(dir, "lumenexit", "config.json")
}
