package game

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/config"
	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render"
	"chosenoffset.com/lumenexit/internal/render/lighting"
	"chosenoffset.com/lumenexit/internal/render/raycast"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

// State is the screen the manager is showing.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StateVictory
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// Manager handles the overall game state, including menu and gameplay.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Game         *Game
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Config       *config.Config
	ConfigPath   string // Where results are saved, empty to never save
	LastResult   Result

	menuError string
}

// NewManager creates a new game manager.
func NewManager(r render.Renderer, input render.InputManager, cfg *config.Config, configPath string, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        StateMenu,
		Renderer:     r,
		InputMgr:     input,
		Config:       cfg,
		ConfigPath:   configPath,
	}
}

// Update updates the game state.
func (m *Manager) Update() error {
	in := m.InputMgr

	switch m.State {
	case StateMenu:
		if in.IsKeyJustPressed(render.KeyEscape) {
			return render.ErrQuit
		}
		if in.IsKeyJustPressed(render.KeyQ) {
			m.cycleQuality()
		}
		if in.IsKeyJustPressed(render.KeyEnter) || in.IsKeyJustPressed(render.KeySpace) {
			if m.Game != nil && !m.Game.Session.Finished {
				m.resume()
				return nil
			}
			return m.StartGame(nil)
		}
	case StatePlaying:
		if in.IsKeyJustPressed(render.KeyEscape) {
			m.State = StateMenu
			in.SetCursorCaptured(false)
			return nil
		}
		if in.IsKeyJustPressed(render.KeyQ) {
			m.cycleQuality()
		}
		if in.IsKeyJustPressed(render.KeyR) {
			return m.StartGame(m.Game.Session.Lights)
		}
		if err := m.Game.Update(); err != nil {
			return err
		}
		if m.Game.Session.Finished {
			m.finish()
		}
	case StateVictory:
		if in.IsKeyJustPressed(render.KeyEscape) {
			return render.ErrQuit
		}
		if in.IsKeyJustPressed(render.KeyR) || in.IsKeyJustPressed(render.KeyEnter) {
			return m.StartGame(nil)
		}
	}
	return nil
}

// StartGame builds a new session and switches to play. A non-nil carry
// keeps the flashlight battery from the run being replaced.
func (m *Manager) StartGame(carry *lighting.Engine) error {
	s, err := NewSession(m.sessionConfig(), carry)
	if err != nil {
		if errors.Is(err, ErrNoExitRoom) {
			logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Could not start game")
			m.menuError = "No exit could be placed. Try a larger maze or fewer rooms."
			m.State = StateMenu
			return nil
		}
		return fmt.Errorf("failed to start game: %w", err)
	}

	cfg := m.Config
	m.Game = NewGame(s, m.Renderer, m.InputMgr, cfg.Controls, m.ScreenWidth, m.ScreenHeight, m.renderScale())
	m.menuError = ""
	m.resume()

	logger.Log.WithFields(logrus.Fields{
		"seed":    s.Seed(),
		"battery": s.Lights.Battery(),
	}).Info("Game started")
	return nil
}

func (m *Manager) resume() {
	m.State = StatePlaying
	m.Game.ResetMouse()
	m.InputMgr.SetCursorCaptured(m.Config.Controls.MouseLook)
}

func (m *Manager) renderScale() int {
	return max(1, m.Config.Video.RenderScale)
}

func (m *Manager) sessionConfig() SessionConfig {
	cfg := m.Config
	scale := m.renderScale()

	view := raycast.DefaultConfig(max(1, m.ScreenWidth/scale), max(1, m.ScreenHeight/scale))
	view.Quality = cfg.Quality()
	view.Workers = cfg.Workers()

	return SessionConfig{
		Maze: maze.Config{
			Width:     cfg.Gameplay.MazeWidth,
			Height:    cfg.Gameplay.MazeHeight,
			Seed:      cfg.Gameplay.Seed,
			RoomCount: cfg.Gameplay.RoomCount,
		},
		View: view,
	}
}

// cycleQuality moves to the next lighting tier and applies it to the
// running game.
func (m *Manager) cycleQuality() {
	q := m.Config.Quality().Next()
	m.Config.Graphics.LightingQuality = q.String()
	if m.Game != nil {
		m.Game.Session.View.SetQuality(q)
		m.Game.ShowMessage("Lighting quality: " + q.String())
	}
	logger.Log.WithFields(logrus.Fields{"quality": q.String()}).Info("Lighting quality changed")
}

// finish records the run and shows the victory screen.
func (m *Manager) finish() {
	s := m.Game.Session
	newRecord := m.Config.UpdateBestTime(s.Elapsed)
	m.LastResult = Result{
		Time:      s.Elapsed,
		BestTime:  m.Config.Stats.BestTime,
		Seed:      s.Seed(),
		NewRecord: newRecord,
	}
	m.State = StateVictory
	m.InputMgr.SetCursorCaptured(false)

	logger.Log.WithFields(logrus.Fields{
		"time":       s.Elapsed,
		"best":       m.LastResult.BestTime,
		"seed":       m.LastResult.Seed,
		"new_record": newRecord,
	}).Info("Reached the exit")

	if newRecord && m.ConfigPath != "" {
		if err := m.Config.Save(m.ConfigPath); err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err, "path": m.ConfigPath}).Error("Failed to save best time")
		}
	}
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	switch m.State {
	case StateMenu:
		m.drawMenu(screen)
	case StatePlaying:
		m.Game.Draw(screen)
	case StateVictory:
		m.Game.Draw(screen)
		m.drawVictory(screen)
	}
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if m.Game != nil {
			m.Game.Resize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// textScale picks a larger title on big screens.
func (m *Manager) textScale(big float64) float64 {
	if m.ScreenHeight < compactHeight {
		return 1
	}
	return big
}

func (m *Manager) drawCentered(screen render.Image, text string, y int, clr color.Color, scale float64) int {
	w, h := m.Renderer.MeasureText(text, scale)
	m.Renderer.DrawText(screen, text, (m.ScreenWidth-w)/2, y, clr, scale)
	return h
}

func (m *Manager) drawMenu(screen render.Image) {
	screen.Fill(color.RGBA{8, 8, 12, 255})

	gap := 10
	if m.ScreenHeight < compactHeight {
		gap = 2
	}
	y := m.ScreenHeight / 5
	y += m.drawCentered(screen, "LUMEN EXIT", y, color.RGBA{255, 215, 100, 255}, m.textScale(4)) + 3*gap

	action := "ENTER: New game"
	if m.Game != nil && !m.Game.Session.Finished {
		action = "ENTER: Resume"
	}
	lines := []string{
		action,
		"Q: Lighting quality (" + m.Config.Quality().String() + ")",
		"ESC: Quit",
	}
	if m.Config.HasBestTime() {
		lines = append(lines, "Best time: "+formatTime(m.Config.Stats.BestTime))
	}
	for _, line := range lines {
		y += m.drawCentered(screen, line, y, white, m.textScale(1.5)) + gap
	}

	if m.menuError != "" {
		m.drawCentered(screen, m.menuError, y+gap, color.RGBA{255, 90, 90, 255}, 1)
	}
}

func (m *Manager) drawVictory(screen render.Image) {
	m.Renderer.FillRect(screen, 0, 0, float32(m.ScreenWidth), float32(m.ScreenHeight), color.NRGBA{0, 0, 0, 170})

	gap := 10
	if m.ScreenHeight < compactHeight {
		gap = 2
	}
	r := m.LastResult
	y := m.ScreenHeight / 4
	y += m.drawCentered(screen, "YOU ESCAPED", y, exitColor(), m.textScale(3)) + 3*gap

	lines := []string{
		"Time: " + formatTime(r.Time),
		"Best: " + formatTime(r.BestTime),
		fmt.Sprintf("Seed: %d", r.Seed),
	}
	if r.NewRecord {
		lines = append(lines, "New record!")
	}
	lines = append(lines, "R: Play again | ESC: Quit")
	for _, line := range lines {
		y += m.drawCentered(screen, line, y, white, m.textScale(1.5)) + gap
	}
}
