// Package terminal runs the game in a terminal through tcell, drawing each
// cell as two vertically stacked pixels with the upper half block glyph.
package terminal

import (
	"errors"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render"
	"chosenoffset.com/lumenexit/internal/render/soft"
)

const (
	tickInterval = 16 * time.Millisecond // ~60 FPS
	// Terminals report key repeats but never releases, so a key counts as
	// held until no repeat arrives for this long.
	holdTimeout = 150 * time.Millisecond
	halfBlock   = '▀'
)

// Engine implements render.Engine on a tcell screen.
type Engine struct {
	screen   tcell.Screen
	input    *soft.Input
	lastSeen map[render.Key]time.Time
	title    string
}

// NewBackend creates a terminal backend. The screen is created lazily by
// RunGame so flag parsing and config errors print normally.
func NewBackend() (render.Backend, *Engine) {
	input := soft.NewInput()
	e := &Engine{
		input:    input,
		lastSeen: make(map[render.Key]time.Time),
	}
	return render.Backend{Renderer: soft.NewRenderer(), Input: input, Engine: e}, e
}

// SetWindowSize is a no-op; the terminal decides its size.
func (e *Engine) SetWindowSize(int, int) {}

// SetWindowTitle sets the terminal title when the screen starts.
func (e *Engine) SetWindowTitle(title string) {
	e.title = title
}

// SetWindowResizable is a no-op; terminals are always resizable.
func (e *Engine) SetWindowResizable(bool) {}

// RunGame takes over the terminal and runs the game loop until the game
// quits or the user presses Ctrl+C.
func (e *Engine) RunGame(game render.Game) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	e.screen = screen
	screen.HideCursor()
	if e.title != "" {
		screen.SetTitle(e.title)
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go forwardEvents(screen, eventChan, done)

	var frame *soft.Image
	for {
		select {
		case ev := <-eventChan:
			if !e.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			e.releaseStale(now)

			cols, rows := screen.Size()
			w, h := game.Layout(cols, rows*2)
			if frame == nil || frame.Bounds().Dx() != w || frame.Bounds().Dy() != h {
				frame = soft.NewImage(w, h)
				logger.Log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("terminal frame resized")
			}

			if err := game.Update(); err != nil {
				if errors.Is(err, render.ErrQuit) {
					return nil
				}
				return err
			}

			frame.Clear()
			game.Draw(frame)
			e.blit(frame.RGBA(), cols, rows)
			screen.Show()
			e.input.EndFrame()
		}
	}
}

// forwardEvents pumps screen events into events until the screen is
// finalized or done is closed.
func forwardEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent feeds key events into the input state. It returns false when
// the loop should stop.
func (e *Engine) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		key, shift, ok := translateKey(ev)
		if !ok {
			return true
		}
		now := time.Now()
		e.input.Press(key)
		e.lastSeen[key] = now
		if shift {
			e.input.Press(render.KeyShift)
			e.lastSeen[render.KeyShift] = now
		}

	case *tcell.EventResize:
		e.screen.Sync()
	}
	return true
}

func (e *Engine) releaseStale(now time.Time) {
	for key, seen := range e.lastSeen {
		if now.Sub(seen) > holdTimeout {
			e.input.Release(key)
			delete(e.lastSeen, key)
		}
	}
}

// translateKey maps a tcell key event to a game key. Upper-case letters
// also report Shift since terminals do not send modifier presses alone.
func translateKey(ev *tcell.EventKey) (render.Key, bool, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return render.KeyUp, false, true
	case tcell.KeyDown:
		return render.KeyDown, false, true
	case tcell.KeyLeft:
		return render.KeyLeft, false, true
	case tcell.KeyRight:
		return render.KeyRight, false, true
	case tcell.KeyTab:
		return render.KeyTab, false, true
	case tcell.KeyEnter:
		return render.KeyEnter, false, true
	case tcell.KeyEscape:
		return render.KeyEscape, false, true
	case tcell.KeyRune:
	default:
		return 0, false, false
	}

	r := ev.Rune()
	shift := r >= 'A' && r <= 'Z'
	if shift {
		r += 'a' - 'A'
	}

	switch r {
	case 'w':
		return render.KeyW, shift, true
	case 'a':
		return render.KeyA, shift, true
	case 's':
		return render.KeyS, shift, true
	case 'd':
		return render.KeyD, shift, true
	case 'f':
		return render.KeyF, shift, true
	case 'q':
		return render.KeyQ, shift, true
	case 'r':
		return render.KeyR, shift, true
	case ' ':
		return render.KeySpace, false, true
	default:
		return 0, false, false
	}
}

// blit copies img to the screen, two pixel rows per terminal row.
func (e *Engine) blit(img *image.RGBA, cols, rows int) {
	b := img.Bounds()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := pixelColor(img, b, x, 2*y)
			bottom := pixelColor(img, b, x, 2*y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			e.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

func pixelColor(img *image.RGBA, b image.Rectangle, x, y int) tcell.Color {
	if x >= b.Dx() || y >= b.Dy() {
		return tcell.ColorBlack
	}
	c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
