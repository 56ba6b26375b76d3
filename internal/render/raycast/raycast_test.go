package raycast

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/render/lighting"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

type gridFunc func(x, y int) bool

func (f gridFunc) IsWall(x, y int) bool { return f(x, y) }

// corridor is open for 0 <= x < 2 and 0 <= y < 11, wall everywhere else
var corridor = gridFunc(func(x, y int) bool {
	return x < 0 || x >= 2 || y < 0 || y >= 11
})

func TestWallOneUnitAhead(t *testing.T) {
	const w, h = 64, 48
	r := NewRenderer(Config{ScreenWidth: w, ScreenHeight: h, Quality: QualityHigh, Workers: 1})
	pose := geom.NewPose(1.0, 5.5, 0)

	frame := r.Render(pose, corridor, lighting.NewEngine())
	col := frame.Columns[w/2]

	if col.Distance != 1.0 {
		t.Errorf("Expected distance 1.0, got %v", col.Distance)
	}
	if height := col.WallBottom - col.WallTop; height != h {
		t.Errorf("Expected wall height %d, got %d", h, height)
	}
	if col.WallTop != 0 || col.WallBottom != h {
		t.Errorf("Expected wall centered on [0,%d), got [%d,%d)", h, col.WallTop, col.WallBottom)
	}
	if !col.Vertical {
		t.Error("Expected a vertical face")
	}
}

func TestCenterColumnHasNoFisheye(t *testing.T) {
	m := maze.New(41, 41, 9)
	sx, sy := m.Spawn()

	for _, angle := range []float64{0, 0.7, 2.1, -1.3, math.Pi} {
		pose := geom.NewPose(sx, sy, angle)
		r := NewRenderer(Config{ScreenWidth: 80, ScreenHeight: 60, Workers: 1})
		frame := r.Render(pose, m, lighting.NewEngine())

		raw := CastRay(pose.X, pose.Y, pose.DirX, pose.DirY, m)
		if got := frame.Columns[40].Distance; got != math.Max(raw.Distance, MinDistance) {
			t.Errorf("angle %v: corrected %v differs from raw %v", angle, got, raw.Distance)
		}
	}
}

func TestCastRayAxisAligned(t *testing.T) {
	grid := gridFunc(func(x, y int) bool { return y >= 4 || y < 0 || x < 0 || x > 5 })

	hit := CastRay(1.5, 1.5, 0, 1, grid)
	if hit.Distance != 2.5 {
		t.Errorf("Expected distance 2.5, got %v", hit.Distance)
	}
	if hit.Vertical {
		t.Error("Expected a horizontal face")
	}
	if hit.MapX != 1 || hit.MapY != 4 {
		t.Errorf("Expected hit cell (1,4), got (%d,%d)", hit.MapX, hit.MapY)
	}
	if hit.HitY != 4.0 {
		t.Errorf("Expected hit y 4.0, got %v", hit.HitY)
	}
}

func TestCastRayDistanceCap(t *testing.T) {
	open := gridFunc(func(x, y int) bool { return false })
	hit := CastRay(0.5, 0.5, 1, 0, open)
	if hit.Distance != MaxRayDistance {
		t.Errorf("Expected capped distance %v, got %v", MaxRayDistance, hit.Distance)
	}
}

func TestNearWallHeightCapped(t *testing.T) {
	const h = 48
	r := NewRenderer(Config{ScreenWidth: 32, ScreenHeight: h, Workers: 1})
	frame := r.Render(geom.NewPose(1.98, 5.5, 0), corridor, lighting.NewEngine())

	col := frame.Columns[16]
	if col.Distance != MinDistance {
		t.Errorf("Expected distance floored to %v, got %v", MinDistance, col.Distance)
	}
	height := col.WallBottom - col.WallTop
	if height > h*MaxHeightFactor || height < h*(MaxHeightFactor-1) {
		t.Errorf("Expected wall height near %d, got %d", h*MaxHeightFactor, height)
	}
	if col.Ceiling.Visible || col.Floor.Visible {
		t.Error("Expected no floor or ceiling behind a screen-filling wall")
	}
}

func TestRenderIndependentOfWorkers(t *testing.T) {
	m := maze.New(41, 41, 17)
	engine := lighting.NewEngine()
	engine.AddRoomLights(m)
	sx, sy := m.Spawn()
	pose := geom.NewPose(sx, sy, 0.4)
	engine.UpdateVisibleLights(pose)

	for _, q := range []Quality{QualityLow, QualityMedium, QualityHigh} {
		var want []Column
		r := NewRenderer(Config{ScreenWidth: 150, ScreenHeight: 90, Quality: q})
		for _, workers := range []int{1, 2, 4, 7} {
			r.SetWorkers(workers)
			frame := r.Render(pose, m, engine)

			if want == nil {
				want = append([]Column(nil), frame.Columns...)
				continue
			}
			if !reflect.DeepEqual(want, frame.Columns) {
				t.Errorf("quality %v: %d workers produced a different frame", q, workers)
			}
		}
	}
}

func TestLowQualityReusesLeftColumn(t *testing.T) {
	m := maze.New(41, 41, 23)
	engine := lighting.NewEngine()
	engine.AddRoomLights(m)
	sx, sy := m.Spawn()
	pose := geom.NewPose(sx, sy, 1.1)
	engine.UpdateVisibleLights(pose)

	r := NewRenderer(Config{ScreenWidth: 40, ScreenHeight: 30, Quality: QualityLow, Workers: 3})
	r.Render(pose, m, engine)

	for x := 1; x < 40; x += 2 {
		if r.records[x].rawLighting != r.records[x-1].rawLighting {
			t.Errorf("Column %d lighting %v, expected reuse of %v", x, r.records[x].rawLighting, r.records[x-1].rawLighting)
		}
	}
}

func TestSmoothAt(t *testing.T) {
	uniform := []float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.4}
	for x := range uniform {
		if got := smoothAt(uniform, x); math.Abs(got-0.4) > 1e-12 {
			t.Errorf("Uniform buffer changed at %d: %v", x, got)
		}
	}

	impulse := []float64{1, 0, 0, 0, 0, 0}
	tests := []struct {
		x    int
		want float64
	}{
		{0, 2 / 3.5},
		{1, 1 / 4.5},
		{2, 0.5 / 5},
		{3, 0},
	}
	for _, tt := range tests {
		if got := smoothAt(impulse, tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("smoothAt(impulse, %d) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestFoggedLight(t *testing.T) {
	if got := foggedLight(0.03, 0); got != 0 {
		t.Errorf("Expected dim light to vanish in full fog, got %v", got)
	}
	if got := foggedLight(0.5, 0); math.Abs(got-(0.5-FogAmbient)) > 1e-12 {
		t.Errorf("Expected light above ambient to survive fog, got %v", got)
	}
	if got := foggedLight(0.5, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Expected no fog to keep the value, got %v", got)
	}
}

func TestRasterize(t *testing.T) {
	wall := color.RGBA{200, 200, 200, 255}
	ceil := color.RGBA{5, 5, 5, 255}
	floor := color.RGBA{9, 9, 9, 255}

	f := &Frame{
		Width:  2,
		Height: 4,
		Columns: []Column{
			{X: 0, WallTop: 1, WallBottom: 3, Wall: wall,
				Ceiling: Strip{Top: 0, Bottom: 1, Color: ceil, Visible: true},
				Floor:   Strip{Top: 3, Bottom: 4, Color: floor, Visible: true}},
			{X: 1, WallTop: -5, WallBottom: 10, Wall: wall},
		},
	}

	if err := f.Rasterize(make([]byte, 4)); err == nil {
		t.Error("Expected an error for a short buffer")
	}

	img := f.Image()
	want := [][2]color.RGBA{
		{ceil, wall},
		{wall, wall},
		{wall, wall},
		{floor, wall},
	}
	for y, row := range want {
		for x, c := range row {
			if got := img.RGBAAt(x, y); got != c {
				t.Errorf("Pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"low", QualityLow, false},
		{"MEDIUM", QualityMedium, false},
		{" high ", QualityHigh, false},
		{"ultra", QualityHigh, true},
	}

	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuality(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseQuality(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if QualityHigh.Next() != QualityLow || QualityLow.Next() != QualityMedium {
		t.Error("Expected Next to cycle low, medium, high")
	}
}

func TestResizeRebuildsTables(t *testing.T) {
	r := NewRenderer(Config{ScreenWidth: 10, ScreenHeight: 10})
	r.Resize(20, 8)

	frame := r.Render(geom.NewPose(1.0, 5.5, 0), corridor, lighting.NewEngine())
	if frame.Width != 20 || frame.Height != 8 || len(frame.Columns) != 20 {
		t.Errorf("Expected a 20x8 frame, got %dx%d with %d columns", frame.Width, frame.Height, len(frame.Columns))
	}
}
