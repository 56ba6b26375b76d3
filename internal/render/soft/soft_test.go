package soft

import (
	"image/color"
	"testing"

	"chosenoffset.com/lumenexit/internal/render"
)

func TestFillRectClipsAndBlends(t *testing.T) {
	r := NewRenderer()
	img := NewImage(4, 4)
	img.Fill(color.RGBA{0, 0, 0, 255})

	r.FillRect(img, 2, 2, 10, 10, color.RGBA{255, 0, 0, 255})
	if got := img.RGBA().RGBAAt(3, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected red at (3,3), got %v", got)
	}
	if got := img.RGBA().RGBAAt(1, 1); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black at (1,1), got %v", got)
	}

	// 50% premultiplied white over black
	r.FillRect(img, 0, 0, 1, 1, color.RGBA{128, 128, 128, 128})
	if got := img.RGBA().RGBAAt(0, 0); got.R < 120 || got.R > 136 || got.A != 255 {
		t.Errorf("Expected mid grey at (0,0), got %v", got)
	}
}

func TestDrawImageScales(t *testing.T) {
	src := NewImage(2, 1)
	src.WritePixels([]byte{255, 0, 0, 255, 0, 0, 255, 255})

	dst := NewImage(4, 2)
	var opts render.DrawImageOptions
	opts.GeoM.Scale(2, 2)
	dst.DrawImage(src, &opts)

	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want := red
			if x >= 2 {
				want = blue
			}
			if got := dst.RGBA().RGBAAt(x, y); got != want {
				t.Errorf("Pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	r := NewRenderer()
	w, h := r.MeasureText("HUD", 1)
	if w != 21 || h != 13 {
		t.Errorf("Expected 21x13 text, got %dx%d", w, h)
	}

	img := NewImage(w*2, h*2)
	r.DrawText(img, "HUD", 0, 0, color.White, 2)

	lit := 0
	for _, b := range img.RGBA().Pix {
		if b != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("Expected text to mark some pixels")
	}
}

func TestInputJustPressed(t *testing.T) {
	in := NewInput()
	in.Press(render.KeyF)

	if !in.IsKeyPressed(render.KeyF) || !in.IsKeyJustPressed(render.KeyF) {
		t.Fatal("Expected F pressed and just pressed")
	}

	in.EndFrame()
	in.Press(render.KeyF)
	if in.IsKeyJustPressed(render.KeyF) {
		t.Error("Expected a held key not to repeat as just pressed")
	}

	in.Release(render.KeyF)
	if in.IsKeyPressed(render.KeyF) {
		t.Error("Expected F released")
	}
}

type countingGame struct {
	updates, draws int
	quitAfter      int
}

func (g *countingGame) Update() error {
	g.updates++
	if g.quitAfter > 0 && g.updates >= g.quitAfter {
		return render.ErrQuit
	}
	return nil
}

func (g *countingGame) Draw(render.Image) { g.draws++ }

func (g *countingGame) Layout(w, h int) (int, int) { return w / 2, h / 2 }

func TestHeadlessRunGame(t *testing.T) {
	g := &countingGame{}
	h := NewHeadless(64, 32, 5, nil)
	if err := h.RunGame(g); err != nil {
		t.Fatalf("Failed to run game: %v", err)
	}
	if g.updates != 5 || g.draws != 5 {
		t.Errorf("Expected 5 updates and draws, got %d/%d", g.updates, g.draws)
	}
	if b := h.Screen().Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("Expected a 32x16 screen, got %v", b)
	}

	quitter := &countingGame{quitAfter: 2}
	if err := NewHeadless(8, 8, 10, nil).RunGame(quitter); err != nil {
		t.Fatalf("Expected quit to end cleanly, got %v", err)
	}
	if quitter.updates != 2 || quitter.draws != 1 {
		t.Errorf("Expected 2 updates and 1 draw, got %d/%d", quitter.updates, quitter.draws)
	}
}
