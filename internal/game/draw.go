package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/logger"
	"chosenoffset.com/lumenexit/internal/render"
	"chosenoffset.com/lumenexit/internal/render/lighting"
)

// HUD and overlay layout
const (
	compactHeight = 300 // Below this screen height the HUD shrinks to one line

	hudWidth      = 280
	hudHeight     = 140
	hudMargin     = 10
	hudBarWidth   = 250
	hudBarHeight  = 12
	hudPanelAlpha = 180

	minimapTile   = 10
	minimapOffset = 20

	vignetteBands   = 8
	vignetteAlpha   = 0.6 * 200
	vignetteMargin  = 0.2
	lowBatteryLevel = 30.0
	lowBatteryAlpha = 100
	lowBatteryEdge  = 0.15
)

var (
	white     = color.RGBA{255, 255, 255, 255}
	hintColor = color.RGBA{170, 170, 170, 255}
	exhausted = color.RGBA{255, 140, 60, 255}
)

// Battery colours blend in HCL space so the mid range stays saturated.
var (
	batteryLow  = mustColorful(color.RGBA{255, 80, 80, 255})
	batteryMid  = mustColorful(color.RGBA{255, 220, 80, 255})
	batteryHigh = mustColorful(color.RGBA{100, 255, 100, 255})
)

// Minimap cell kinds
const (
	tileWall = iota
	tileCorridor
	tileRoom
	tileExit
	tileKinds
)

// minimapLevels is how many proximity steps the minimap brightens by.
const minimapLevels = 6

// minimapGlow is the blend toward white for the player's own cell.
const minimapGlow = 0.35

var minimapPalette = buildMinimapPalette()

func mustColorful(c color.Color) colorful.Color {
	cc, _ := colorful.MakeColor(c)
	return cc
}

func toRGBA(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{r, g, b, alpha}
}

// buildMinimapPalette precomputes each cell colour blended toward white
// for the cells closest to the player.
func buildMinimapPalette() [tileKinds][minimapLevels]color.NRGBA {
	base := [tileKinds]colorful.Color{
		tileWall:     mustColorful(color.RGBA{180, 180, 180, 255}),
		tileCorridor: mustColorful(color.RGBA{90, 90, 90, 255}),
		tileRoom:     mustColorful(color.RGBA{80, 255, 80, 255}),
		tileExit:     mustColorful(color.RGBA{255, 215, 0, 255}),
	}
	glow := mustColorful(color.RGBA{255, 250, 230, 255})

	var p [tileKinds][minimapLevels]color.NRGBA
	for k := range base {
		for l := 0; l < minimapLevels; l++ {
			t := geom.Lerp(minimapGlow, 0, float64(l)/float64(minimapLevels-1))
			p[k][l] = toRGBA(base[k].BlendLab(glow, t), 255)
		}
	}
	return p
}

// batteryColor maps a battery percentage onto a red to yellow to green ramp.
func batteryColor(percent float64) color.NRGBA {
	t := geom.Clamp(percent/100, 0, 1)
	if t < 0.5 {
		return toRGBA(batteryLow.BlendHcl(batteryMid, t/0.5), 255)
	}
	return toRGBA(batteryMid.BlendHcl(batteryHigh, (t-0.5)/0.5), 255)
}

// batteryLabel is the HUD battery line with its state marker.
func batteryLabel(tel lighting.Telemetry) string {
	text := fmt.Sprintf("Battery: %d%%", int(tel.Battery))
	switch {
	case tel.Active && tel.LowBattery:
		text += " [LOW]"
	case tel.Active:
	case tel.Battery <= 0:
		text += " [DEAD]"
	default:
		text += " [OFF]"
	}
	return text
}

// formatTime renders seconds as MM:SS.
func formatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	frame := g.Session.Render()

	if g.view == nil || needsResize(g.view, frame.Width, frame.Height) {
		if g.view != nil {
			g.view.Dispose()
		}
		g.view = g.Renderer.NewImage(frame.Width, frame.Height)
		g.pixels = make([]byte, frame.Width*frame.Height*4)
	}
	if err := frame.Rasterize(g.pixels); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("Failed to rasterize frame")
		return
	}
	g.view.WritePixels(g.pixels)

	w, h := screen.Size()
	opts := &render.DrawImageOptions{}
	opts.GeoM.Scale(float64(w)/float64(frame.Width), float64(h)/float64(frame.Height))
	screen.DrawImage(g.view, opts)

	g.drawPostEffects(screen)
	g.drawHUD(screen)
	if g.ShowMinimap {
		g.drawMinimap(screen)
	}
	g.drawMessages(screen)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

func (g *Game) drawPostEffects(screen render.Image) {
	g.drawEdgeFade(screen, vignetteMargin, vignetteAlpha, color.NRGBA{0, 0, 0, 0})

	battery := g.Session.Lights.Telemetry().Battery
	if battery < lowBatteryLevel {
		pulse := 0.5 + 0.5*math.Sin(battery*0.5)
		intensity := (lowBatteryLevel - battery) / lowBatteryLevel * pulse
		g.drawEdgeFade(screen, lowBatteryEdge, intensity*lowBatteryAlpha, color.NRGBA{200, 0, 0, 0})
	}
}

// drawEdgeFade darkens the screen edges with bands that fade out toward
// margin (a fraction of the screen size) from each edge.
func (g *Game) drawEdgeFade(screen render.Image, margin, alpha float64, clr color.NRGBA) {
	w, h := screen.Size()
	bw := float32(float64(w) * margin / vignetteBands)
	bh := float32(float64(h) * margin / vignetteBands)
	fw, fh := float32(w), float32(h)

	for i := 0; i < vignetteBands; i++ {
		t := 1 - float64(i)/vignetteBands
		clr.A = uint8(geom.Clamp(alpha*t*t/2, 0, 255))
		if clr.A == 0 {
			continue
		}
		x := bw * float32(i)
		y := bh * float32(i)
		g.Renderer.FillRect(screen, 0, y, fw, bh, clr)
		g.Renderer.FillRect(screen, 0, fh-y-bh, fw, bh, clr)
		g.Renderer.FillRect(screen, x, 0, bw, fh, clr)
		g.Renderer.FillRect(screen, fw-x-bw, 0, bw, fh, clr)
	}
}

func (g *Game) drawHUD(screen render.Image) {
	s := g.Session
	p := s.Player
	tel := s.Lights.Telemetry()
	battery := tel.Battery
	_, h := screen.Size()

	batteryText := batteryLabel(tel)
	staminaText := fmt.Sprintf("Stamina: %d%%", int(p.StaminaPercent()))
	staminaColor := color.Color(white)
	if p.Exhausted() {
		staminaText += " [EXHAUSTED]"
		staminaColor = exhausted
	}

	if h < compactHeight {
		line := fmt.Sprintf("%s B%d%% S%d%%", formatTime(s.Elapsed), int(battery), int(p.StaminaPercent()))
		_, th := g.Renderer.MeasureText(line, 1)
		g.Renderer.FillRect(screen, 0, float32(h-th-2), float32(g.ScreenWidth), float32(th+2), color.NRGBA{0, 0, 0, hudPanelAlpha})
		g.Renderer.DrawText(screen, line, 2, h-th-1, batteryColor(battery), 1)
		return
	}

	x := float32(hudMargin)
	y := float32(h - hudHeight - hudMargin)
	g.Renderer.FillRect(screen, x, y, hudWidth, hudHeight, color.NRGBA{0, 0, 0, hudPanelAlpha})
	g.Renderer.StrokeRect(screen, x, y, hudWidth, hudHeight, 1, color.NRGBA{255, 255, 255, 60})

	tx := hudMargin + 10
	ty := int(y) + 8
	g.Renderer.DrawText(screen, "Time: "+formatTime(s.Elapsed), tx, ty, white, 1)

	ty += 20
	g.Renderer.DrawText(screen, batteryText, tx, ty, batteryColor(battery), 1)
	ty += 18
	g.drawBar(screen, float32(tx), float32(ty), battery/100, batteryColor(battery))

	ty += 20
	g.Renderer.DrawText(screen, staminaText, tx, ty, staminaColor, 1)
	ty += 18
	g.drawBar(screen, float32(tx), float32(ty), p.Stamina/MaxStamina, color.NRGBA{120, 180, 255, 255})
	if p.Exhausted() {
		mx := float32(tx) + float32(hudBarWidth*p.ExhaustionThreshold())
		g.Renderer.StrokeLine(screen, mx, float32(ty-2), mx, float32(ty+hudBarHeight+2), 2, white)
	}

	ty += 20
	hint := fmt.Sprintf("TAB: Map | F: Flashlight | Seed %d", s.Seed())
	g.Renderer.DrawText(screen, hint, tx, ty, hintColor, 1)
}

func (g *Game) drawBar(screen render.Image, x, y float32, fraction float64, fill color.Color) {
	g.Renderer.FillRect(screen, x, y, hudBarWidth, hudBarHeight, color.NRGBA{40, 40, 40, 255})
	if w := float32(hudBarWidth * geom.Clamp(fraction, 0, 1)); w > 0 {
		g.Renderer.FillRect(screen, x, y, w, hudBarHeight, fill)
	}
	g.Renderer.StrokeRect(screen, x, y, hudBarWidth, hudBarHeight, 1, color.NRGBA{200, 200, 200, 255})
}

// minimapLayout returns the tile size and offset that fit the maze on screen.
func (g *Game) minimapLayout(screenW, screenH int) (tile, offset int) {
	m := g.Session.Maze
	offset = minimapOffset
	if screenH < compactHeight {
		offset = 2
	}
	avail := min(screenW, screenH) - 2*offset
	tile = min(minimapTile, avail/max(m.Width(), m.Height()))
	return max(tile, 1), offset
}

func (g *Game) drawMinimap(screen render.Image) {
	m := g.Session.Maze
	p := g.Session.Player
	w, h := screen.Size()
	tile, off := g.minimapLayout(w, h)
	ft, fo := float32(tile), float32(off)

	mw, mh := float32(m.Width()*tile), float32(m.Height()*tile)
	g.Renderer.FillRect(screen, fo, fo, mw, mh, color.NRGBA{10, 10, 10, 240})

	exit, hasExit := m.ExitRoom()
	px, py := p.Cell()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !p.Visited(x, y) {
				continue
			}
			kind := tileCorridor
			switch {
			case m.IsWall(x, y):
				kind = tileWall
			case hasExit && exit.Contains(x, y):
				kind = tileExit
			case m.IsInRoom(x, y):
				kind = tileRoom
			}
			level := min(max(abs(x-px), abs(y-py)), minimapLevels-1)
			g.Renderer.FillRect(screen, fo+float32(x)*ft, fo+float32(y)*ft, ft, ft, minimapPalette[kind][level])
		}
	}
	g.Renderer.StrokeRect(screen, fo, fo, mw, mh, 1, white)

	cx := fo + float32(p.Pose.X)*ft
	cy := fo + float32(p.Pose.Y)*ft
	yellow := color.NRGBA{255, 255, 0, 255}
	g.Renderer.FillCircle(screen, cx, cy, ft/2+1, yellow)
	g.Renderer.StrokeLine(screen, cx, cy, cx+float32(p.Pose.DirX)*2*ft, cy+float32(p.Pose.DirY)*2*ft, 2, yellow)
}

func (g *Game) drawMessages(screen render.Image) {
	w, _ := screen.Size()
	y := 50
	if g.ScreenHeight < compactHeight {
		y = 2
	}
	for _, msg := range g.Messages {
		tw, th := g.Renderer.MeasureText(msg.Text, 1)
		g.Renderer.DrawText(screen, msg.Text, (w-tw)/2, y, color.NRGBA{255, 255, 255, uint8(255 * msg.Alpha())}, 1)
		y += th + 6
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// exitColor is the minimap exit colour away from the player.
func exitColor() color.NRGBA {
	return minimapPalette[tileExit][minimapLevels-1]
}
