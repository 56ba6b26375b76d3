package game

import (
	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/config"
	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render"
)

// Game holds one run in progress and the state needed to draw it.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	RenderScale  int
	Session      *Session
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Controls     config.ControlsConfig

	// UI state
	ShowMinimap bool
	Messages    []Message

	// Frame upload
	view   render.Image
	pixels []byte

	// Mouse look
	cursorX, cursorY int
	cursorPrimed     bool
}

// NewGame wraps a session for play on a screen of the given size.
func NewGame(s *Session, r render.Renderer, input render.InputManager, controls config.ControlsConfig, width, height, scale int) *Game {
	return &Game{
		ScreenWidth:  width,
		ScreenHeight: height,
		RenderScale:  max(1, scale),
		Session:      s,
		Renderer:     r,
		InputMgr:     input,
		Controls:     controls,
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0

	g.updateMessages(dt)

	if g.InputMgr.IsKeyJustPressed(render.KeyF) {
		if g.Session.Lights.ToggleFlashlight() {
			g.ShowMessage("Flashlight on")
		} else {
			g.ShowMessage("Flashlight off")
		}
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyTab) {
		g.ShowMinimap = !g.ShowMinimap
	}

	wasSafe := g.Session.InSafeRoom()
	g.Session.Step(dt, g.readControls(dt))
	if !wasSafe && g.Session.InSafeRoom() && !g.Session.Finished {
		g.ShowMessage("Safe room: recharging")
	}

	return nil
}

// readControls turns held keys and mouse travel into one tick of intent.
func (g *Game) readControls(dt float64) Controls {
	in := g.InputMgr
	c := Controls{
		Forward:  in.IsKeyPressed(render.KeyW) || in.IsKeyPressed(render.KeyUp),
		Backward: in.IsKeyPressed(render.KeyS) || in.IsKeyPressed(render.KeyDown),
		Sprint:   in.IsKeyPressed(render.KeyShift),
	}

	turn := 0.0
	if in.IsKeyPressed(render.KeyA) || in.IsKeyPressed(render.KeyLeft) {
		turn--
	}
	if in.IsKeyPressed(render.KeyD) || in.IsKeyPressed(render.KeyRight) {
		turn++
	}
	c.Turn = turn * g.Controls.TurnSpeed * dt

	if g.Controls.MouseLook {
		x, y := in.GetCursorPosition()
		if g.cursorPrimed {
			c.Turn += float64(x-g.cursorX) * g.Controls.MouseSensitivity
		}
		g.cursorX, g.cursorY = x, y
		g.cursorPrimed = true
	}
	return c
}

// ResetMouse drops the remembered cursor so the next tick does not turn by
// however far the cursor moved while the game was paused.
func (g *Game) ResetMouse() {
	g.cursorPrimed = false
}

// Resize changes the screen size and the raycast resolution with it.
func (g *Game) Resize(width, height int) {
	g.ScreenWidth = width
	g.ScreenHeight = height
	g.Session.View.Resize(max(1, width/g.RenderScale), max(1, height/g.RenderScale))
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})

	logger.Log.WithFields(logrus.Fields{"message": text}).Debug("Message")
}
