package game

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render/lighting"
	"chosenoffset.com/lumenexit/internal/render/raycast"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

// ErrNoExitRoom is returned when no generated maze had room for an exit.
var ErrNoExitRoom = errors.New("maze has no exit room")

// MaxGenerationAttempts bounds how many consecutive seeds are tried before
// giving up on a maze with an exit.
const MaxGenerationAttempts = 8

// SessionConfig holds what is needed to build one run.
type SessionConfig struct {
	Maze maze.Config
	View raycast.Config
}

// Session owns everything that lives for a single maze: the grid, the
// player, the light engine and the raycaster drawing it.
type Session struct {
	Maze     *maze.Maze
	Player   *Player
	Lights   *lighting.Engine
	View     *raycast.Renderer
	Elapsed  float64 // Seconds of play
	Finished bool
}

// NewSession generates a maze and places the player in it. When carry is
// non-nil its flashlight state (battery and switch) moves to the new engine.
func NewSession(cfg SessionConfig, carry *lighting.Engine) (*Session, error) {
	m, err := generateMaze(cfg.Maze)
	if err != nil {
		return nil, err
	}

	lights := lighting.NewEngine()
	lights.AddRoomLights(m)
	if carry != nil {
		lights.TransferFlashlight(carry)
	}

	s := &Session{
		Maze:   m,
		Player: NewPlayer(m),
		Lights: lights,
		View:   raycast.NewRenderer(cfg.View),
	}
	lights.UpdateVisibleLights(s.Player.Pose)

	logger.Log.WithFields(logrus.Fields{
		"seed":       m.Seed(),
		"width":      m.Width(),
		"height":     m.Height(),
		"rooms":      len(m.Rooms()),
		"open_cells": m.OpenCells(),
		"lights":     len(lights.Lights()),
		"quality":    cfg.View.Quality.String(),
	}).Debug("Generated maze")

	return s, nil
}

// generateMaze retries with the following seed while the maze has no exit.
func generateMaze(cfg maze.Config) (*maze.Maze, error) {
	for attempt := 1; attempt <= MaxGenerationAttempts; attempt++ {
		m := maze.Generate(cfg)
		if m.ExitRoomIndex() >= 0 {
			return m, nil
		}

		logger.Log.WithFields(logrus.Fields{
			"seed":    m.Seed(),
			"rooms":   len(m.Rooms()),
			"attempt": attempt,
		}).Warn("Maze has no exit room, trying next seed")

		cfg.Seed = m.Seed() + 1
		if cfg.Seed == 0 {
			cfg.Seed = 1
		}
	}
	return nil, fmt.Errorf("generate %dx%d maze with %d rooms: %w",
		cfg.Width, cfg.Height, cfg.RoomCount, ErrNoExitRoom)
}

// Seed returns the seed that reproduces this session's maze.
func (s *Session) Seed() uint32 {
	return s.Maze.Seed()
}

// InSafeRoom reports whether the player stands in any room.
func (s *Session) InSafeRoom() bool {
	x, y := s.Player.Cell()
	return s.Maze.IsInRoom(x, y)
}

// Step advances the run by dt seconds. Movement comes first so the
// flashlight and light culling see the new pose.
func (s *Session) Step(dt float64, c Controls) {
	if s.Finished {
		return
	}

	s.Player.Update(dt, c, s.Maze)
	s.Elapsed += dt

	s.Lights.UpdateFlashlight(dt, s.Lights.FlashlightEnabled(), s.InSafeRoom())
	s.Lights.UpdateVisibleLights(s.Player.Pose)

	if s.Player.ReachedExit {
		s.Finished = true
	}
}

// Render draws the player's view. The frame is reused by the next call.
func (s *Session) Render() *raycast.Frame {
	return s.View.Render(s.Player.Pose, s.Maze, s.Lights)
}
