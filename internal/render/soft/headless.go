package soft

import (
	"errors"
	"image"

	"chosenoffset.com/lumenexit/internal/render"
)

// Input is an InputManager driven by calls rather than devices. The
// terminal backend feeds it from key events; tests script it directly.
type Input struct {
	pressed  map[render.Key]bool
	just     map[render.Key]bool
	cursorX  int
	cursorY  int
	captured bool
}

// NewInput creates an input manager with nothing pressed.
func NewInput() *Input {
	return &Input{
		pressed: make(map[render.Key]bool),
		just:    make(map[render.Key]bool),
	}
}

// Press marks key as held and just pressed.
func (in *Input) Press(key render.Key) {
	if !in.pressed[key] {
		in.just[key] = true
	}
	in.pressed[key] = true
}

// Release marks key as no longer held.
func (in *Input) Release(key render.Key) {
	delete(in.pressed, key)
}

// SetCursor moves the cursor.
func (in *Input) SetCursor(x, y int) {
	in.cursorX, in.cursorY = x, y
}

// EndFrame forgets which keys were just pressed. Call once per tick.
func (in *Input) EndFrame() {
	clear(in.just)
}

// IsKeyPressed returns whether the specified key is currently held.
func (in *Input) IsKeyPressed(key render.Key) bool {
	return in.pressed[key]
}

// IsKeyJustPressed returns whether the key went down this tick.
func (in *Input) IsKeyJustPressed(key render.Key) bool {
	return in.just[key]
}

// GetCursorPosition returns the current cursor position.
func (in *Input) GetCursorPosition() (x, y int) {
	return in.cursorX, in.cursorY
}

// IsMouseButtonPressed always reports false.
func (in *Input) IsMouseButtonPressed(render.MouseButton) bool {
	return false
}

// SetCursorCaptured records the requested cursor mode.
func (in *Input) SetCursorCaptured(captured bool) {
	in.captured = captured
}

// Captured reports the last requested cursor mode.
func (in *Input) Captured() bool {
	return in.captured
}

// Headless is an Engine that runs a fixed number of ticks without a window.
type Headless struct {
	width  int
	height int
	frames int
	title  string
	input  *Input
	screen *Image
}

// NewHeadless creates an engine that runs frames ticks at the given outside
// size. input may be nil.
func NewHeadless(width, height, frames int, input *Input) *Headless {
	return &Headless{width: width, height: height, frames: frames, input: input}
}

// NewBackend wires a software renderer and scripted input to a headless engine.
func NewBackend(width, height, frames int) (render.Backend, *Headless) {
	input := NewInput()
	engine := NewHeadless(width, height, frames, input)
	return render.Backend{Renderer: NewRenderer(), Input: input, Engine: engine}, engine
}

// SetWindowSize sets the outside size passed to Layout.
func (h *Headless) SetWindowSize(width, height int) {
	h.width, h.height = width, height
}

// SetWindowTitle records the title.
func (h *Headless) SetWindowTitle(title string) {
	h.title = title
}

// SetWindowResizable is a no-op.
func (h *Headless) SetWindowResizable(bool) {}

// RunGame ticks the game until the frame budget runs out or it quits.
func (h *Headless) RunGame(game render.Game) error {
	w, ht := game.Layout(h.width, h.height)
	h.screen = NewImage(w, ht)

	for i := 0; i < h.frames; i++ {
		if err := game.Update(); err != nil {
			if errors.Is(err, render.ErrQuit) {
				return nil
			}
			return err
		}

		h.screen.Clear()
		game.Draw(h.screen)

		if h.input != nil {
			h.input.EndFrame()
		}
	}
	return nil
}

// Screen returns the last drawn screen, nil before RunGame.
func (h *Headless) Screen() *image.RGBA {
	if h.screen == nil {
		return nil
	}
	return h.screen.img
}
