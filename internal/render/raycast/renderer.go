package raycast

import (
	"math"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/lumenexit/internal/core/geom"
)

// columnRecord is the per-column scratch state shared between passes
type columnRecord struct {
	distance    float64
	drawStart   int
	drawEnd     int
	vertical    bool
	rawLighting float64
	fog         float64
}

// Renderer casts rays for a fixed screen size. It is not safe for
// concurrent use; Render fans work out internally.
type Renderer struct {
	config Config

	// Per-column offset rotation, rebuilt only when the config changes
	offCos []float64
	offSin []float64

	records  []columnRecord
	lightBuf []float64
	smooth   []float64
	frame    Frame
}

// NewRenderer creates a renderer and precomputes its column tables
func NewRenderer(config Config) *Renderer {
	r := &Renderer{}
	r.configure(config)
	return r
}

func (r *Renderer) configure(config Config) {
	if config.FOV <= 0 {
		config.FOV = DefaultFOV
	}
	config.ScreenWidth = max(config.ScreenWidth, 1)
	config.ScreenHeight = max(config.ScreenHeight, 1)
	r.config = config

	w := config.ScreenWidth
	r.offCos = make([]float64, w)
	r.offSin = make([]float64, w)
	halfTan := math.Tan(config.FOV / 2)
	for x := 0; x < w; x++ {
		cameraX := 2*float64(x)/float64(w) - 1
		offset := math.Atan(cameraX * halfTan)
		r.offSin[x], r.offCos[x] = math.Sincos(offset)
	}

	r.records = make([]columnRecord, w)
	r.lightBuf = make([]float64, w)
	r.smooth = make([]float64, w)
	r.frame = Frame{
		Width:   w,
		Height:  config.ScreenHeight,
		Columns: make([]Column, w),
	}
}

// Config returns the active configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Quality returns the active lighting tier
func (r *Renderer) Quality() Quality {
	return r.config.Quality
}

// SetQuality switches the lighting tier from the next frame on
func (r *Renderer) SetQuality(q Quality) {
	r.config.Quality = q
}

// SetWorkers changes how many goroutines each pass may use
func (r *Renderer) SetWorkers(n int) {
	r.config.Workers = n
}

// Resize changes the screen size and rebuilds the column tables
func (r *Renderer) Resize(width, height int) {
	if width == r.config.ScreenWidth && height == r.config.ScreenHeight {
		return
	}
	cfg := r.config
	cfg.ScreenWidth = width
	cfg.ScreenHeight = height
	r.configure(cfg)
}

// Render draws one frame. The returned Frame is owned by the renderer and
// is overwritten by the next call.
func (r *Renderer) Render(pose geom.Pose, grid Occluder, light LightField) *Frame {
	fogDist := FogDistanceDark
	if light.FlashlightActive() {
		fogDist = FogDistanceLit
	}

	r.parallel(func(lo, hi int) {
		for x := lo; x < hi; x++ {
			r.castColumn(x, pose, grid, light, fogDist)
		}
	})

	r.parallel(func(lo, hi int) {
		for x := lo; x < hi; x++ {
			r.smooth[x] = smoothAt(r.lightBuf, x)
		}
	})

	for x := range r.frame.Columns {
		r.emitColumn(x)
	}

	return &r.frame
}

// parallel runs fn over contiguous column chunks. Chunk starts are even so
// the LOW tier's odd columns always find their left neighbour in the same
// chunk. Wait is the barrier between passes.
func (r *Renderer) parallel(fn func(lo, hi int)) {
	w := r.config.ScreenWidth
	workers := r.config.Workers
	if workers <= 1 || w < 4 {
		fn(0, w)
		return
	}

	chunk := (w + workers - 1) / workers
	chunk += chunk % 2

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < w; lo += chunk {
		hi := min(lo+chunk, w)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}

// castColumn is pass 1 for column x: geometry, volumetric lighting, fog and
// face shading.
func (r *Renderer) castColumn(x int, pose geom.Pose, grid Occluder, light LightField, fogDist float64) {
	h := r.config.ScreenHeight
	cosO, sinO := r.offCos[x], r.offSin[x]
	dirX := pose.DirX*cosO - pose.DirY*sinO
	dirY := pose.DirY*cosO + pose.DirX*sinO

	hit := CastRay(pose.X, pose.Y, dirX, dirY, grid)

	// The column's angle from the view axis is its table offset, so the
	// fisheye factor is the cached cosine.
	corrected := math.Max(hit.Distance*cosO, MinDistance)

	wallHeight := int(float64(h) / corrected)
	wallHeight = min(wallHeight, h*MaxHeightFactor)
	drawStart := (h - wallHeight) / 2
	drawEnd := drawStart + wallHeight

	var lit float64
	if samples, reuse := r.sampleCount(x, corrected); reuse {
		lit = r.records[x-1].rawLighting
	} else {
		lit = volumetric(pose, dirX, dirY, corrected, samples, hit, grid, light)
	}

	fog := 0.0
	if corrected <= fogDist {
		ratio := corrected / fogDist
		ratio *= ratio
		fog = 1 - ratio*ratio
	}

	shade := HorizontalShade
	if hit.Vertical {
		shade = VerticalShade
	}

	r.records[x] = columnRecord{
		distance:    corrected,
		drawStart:   drawStart,
		drawEnd:     drawEnd,
		vertical:    hit.Vertical,
		rawLighting: lit,
		fog:         fog,
	}
	r.lightBuf[x] = foggedLight(lit, fog) * shade
}

// sampleCount picks the sample count for column x, or reports that the
// column reuses its left neighbour.
func (r *Renderer) sampleCount(x int, corrected float64) (int, bool) {
	switch r.config.Quality {
	case QualityLow:
		return 2, x%2 == 1
	case QualityMedium:
		return 3, false
	default:
		if corrected < NearWallDist {
			return 5, false
		}
		return 3, false
	}
}

// volumetric averages lighting sampled along the ray, nearer samples
// weighing more, then blends in the lighting on the wall itself.
func volumetric(pose geom.Pose, dirX, dirY, corrected float64, samples int, hit RayHit, grid Occluder, light LightField) float64 {
	maxDist := math.Min(corrected, SampleDistCap)

	total := 0.0
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1) * maxDist
		l := light.CalculateLighting(pose.X+dirX*t, pose.Y+dirY*t, pose, grid)

		falloff := 1 - t/maxDist
		falloff *= falloff
		total += l * (0.5 + 0.5*falloff)
	}
	avg := total / float64(samples)

	wall := light.CalculateLighting(hit.HitX, hit.HitY, pose, grid)
	return avg*(1-wallBlend) + wall*wallBlend
}

// foggedLight splits lighting into the part above the fog ambient and the
// ambient itself, and fades only the ambient.
func foggedLight(raw, fog float64) float64 {
	return math.Max(0, raw-FogAmbient) + FogAmbient*fog
}

var smoothKernel = [5]float64{0.5, 1, 2, 1, 0.5}

// smoothAt applies the 5-tap kernel at x, renormalizing where the kernel
// runs off either edge.
func smoothAt(buf []float64, x int) float64 {
	sum, weight := 0.0, 0.0
	for k, wgt := range smoothKernel {
		i := x + k - 2
		if i < 0 || i >= len(buf) {
			continue
		}
		sum += buf[i] * wgt
		weight += wgt
	}
	return sum / weight
}

// emitColumn is pass 3: turn the smoothed brightness into colours and extents.
func (r *Renderer) emitColumn(x int) {
	rec := &r.records[x]
	h := r.config.ScreenHeight

	v := geom.ClampInt(int(r.smooth[x]*255), 0, 255)
	surface := foggedLight(rec.rawLighting, rec.fog)

	col := Column{
		X:          x,
		WallTop:    rec.drawStart,
		WallBottom: rec.drawEnd,
		Wall:       gray(v),
		Distance:   rec.distance,
		Vertical:   rec.vertical,
	}

	if rec.drawStart > 0 {
		col.Ceiling = Strip{
			Top:     0,
			Bottom:  rec.drawStart,
			Color:   gray(geom.ClampInt(int(surface*CeilingScale), 0, 255)),
			Visible: true,
		}
	}
	if rec.drawEnd < h {
		col.Floor = Strip{
			Top:     rec.drawEnd,
			Bottom:  h,
			Color:   gray(geom.ClampInt(int(surface*FloorScale), 0, 255)),
			Visible: true,
		}
	}

	r.frame.Columns[x] = col
}
