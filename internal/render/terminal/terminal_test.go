package terminal

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/lumenexit/internal/render"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name      string
		ev        *tcell.EventKey
		want      render.Key
		wantShift bool
		wantOK    bool
	}{
		{"lower w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), render.KeyW, false, true},
		{"upper W sprints", tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModNone), render.KeyW, true, true},
		{"flashlight", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), render.KeyF, false, true},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), render.KeyLeft, false, true},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), render.KeyTab, false, true},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, shift, ok := translateKey(tt.ev)
			if ok != tt.wantOK || (ok && (got != tt.want || shift != tt.wantShift)) {
				t.Errorf("translateKey = (%v,%v,%v), want (%v,%v,%v)", got, shift, ok, tt.want, tt.wantShift, tt.wantOK)
			}
		})
	}
}

func TestKeysReleaseAfterTimeout(t *testing.T) {
	_, e := NewBackend()
	e.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModNone))

	if !e.input.IsKeyPressed(render.KeyD) || !e.input.IsKeyPressed(render.KeyShift) {
		t.Fatal("Expected D and Shift held")
	}

	e.releaseStale(time.Now())
	if !e.input.IsKeyPressed(render.KeyD) {
		t.Error("Expected D still held within the timeout")
	}

	e.releaseStale(time.Now().Add(2 * holdTimeout))
	if e.input.IsKeyPressed(render.KeyD) || e.input.IsKeyPressed(render.KeyShift) {
		t.Error("Expected keys released after the timeout")
	}
}

func TestCtrlCStops(t *testing.T) {
	_, e := NewBackend()
	if e.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("Expected Ctrl+C to stop the loop")
	}
}

func TestBlitHalfBlocks(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer sim.Fini()
	sim.SetSize(2, 1)

	_, e := NewBackend()
	e.screen = sim

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	e.blit(img, 2, 1)

	mainc, _, style, _ := sim.GetContent(0, 0)
	if mainc != halfBlock {
		t.Errorf("Expected half block glyph, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Expected red over blue, got fg=%v bg=%v", fg, bg)
	}
}

func TestForwardEventsStopsWhenDone(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer sim.Fini()

	// Nobody reads events, so the pump blocks once the buffer is full
	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		forwardEvents(sim, events, done)
		close(stopped)
	}()

	close(done)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("forwardEvents kept running after done was closed")
	}
}
