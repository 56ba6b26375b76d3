// Package lighting computes illumination in the maze from static room
// lights and the player's flashlight.
package lighting

import (
	"image/color"
	"math"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

// Lighting constants
const (
	AmbientLight         = 0.03
	RoomLightIntensity   = 2.0
	RoomLightRadiusScale = 1.5
	CullMargin           = 2.0         // Extra distance beyond a light's radius kept by culling
	CullHalfFOV          = math.Pi / 3 // Wider than the render half-FOV to avoid popping
	losStopShort         = 0.1
)

// Light colors
var (
	RoomLightColor = color.NRGBA{255, 240, 200, 255}
	ExitLightColor = color.NRGBA{255, 215, 100, 255}
)

// Light represents a single point light source in the maze
type Light struct {
	X         float64     // Maze X position
	Y         float64     // Maze Y position
	Radius    float64     // Falloff radius in cells
	Intensity float64     // Peak contribution at the source
	Color     color.NRGBA // Light color
	Static    bool        // Static lights never move
}

// Occluder answers whether a grid cell blocks light.
type Occluder interface {
	IsWall(x, y int) bool
}

// RoomSource provides the rooms that receive a light each.
type RoomSource interface {
	Rooms() []maze.Room
}

// Telemetry is the HUD-facing snapshot of the lighting state.
type Telemetry struct {
	Battery       float64
	Enabled       bool
	Active        bool
	LowBattery    bool
	VisibleLights int
	StaticLights  int
}

// Engine handles all light sources in a maze
type Engine struct {
	lights     []Light
	visible    []int // Indices into lights that passed culling this frame
	ambient    float64
	flashlight Flashlight
}

// NewEngine creates a lighting engine with a full, enabled flashlight
func NewEngine() *Engine {
	return &Engine{
		lights:     make([]Light, 0),
		visible:    make([]int, 0),
		ambient:    AmbientLight,
		flashlight: DefaultFlashlight(),
	}
}

// Ambient returns the constant ambient light level
func (e *Engine) Ambient() float64 {
	return e.ambient
}

// AddRoomLights replaces the static lights with one light per room
func (e *Engine) AddRoomLights(rooms RoomSource) {
	e.ClearLights()

	for _, room := range rooms.Rooms() {
		cx, cy := room.Center()
		radius := float64(max(room.Width, room.Height)) * RoomLightRadiusScale

		col := RoomLightColor
		if room.IsExit {
			col = ExitLightColor
		}

		e.AddLight(Light{
			X:         cx,
			Y:         cy,
			Radius:    radius,
			Intensity: RoomLightIntensity,
			Color:     col,
			Static:    true,
		})
	}
}

// AddLight adds a light source, clamping negative radius and intensity to zero
func (e *Engine) AddLight(l Light) {
	l.Radius = math.Max(l.Radius, 0)
	l.Intensity = math.Max(l.Intensity, 0)
	e.lights = append(e.lights, l)
}

// ClearLights removes all lights and empties the visible set
func (e *Engine) ClearLights() {
	e.lights = e.lights[:0]
	e.visible = e.visible[:0]
}

// Lights returns a copy of all light sources
func (e *Engine) Lights() []Light {
	out := make([]Light, len(e.lights))
	copy(out, e.lights)
	return out
}

// VisibleLights returns a copy of the lights that passed the last culling pass
func (e *Engine) VisibleLights() []Light {
	out := make([]Light, 0, len(e.visible))
	for _, i := range e.visible {
		out = append(out, e.lights[i])
	}
	return out
}

// UpdateVisibleLights culls the static lights against the pose. A light is kept
// when it is within reach and either roughly in front of the player or close
// enough that its glow surrounds them.
func (e *Engine) UpdateVisibleLights(pose geom.Pose) {
	e.visible = e.visible[:0]

	eye := pose.Position()
	for i, l := range e.lights {
		at := geom.Point{X: l.X, Y: l.Y}
		dist := geom.Distance(eye, at)

		if dist >= l.Radius+CullMargin {
			continue
		}

		bearing := geom.NormalizeAngle(math.Atan2(l.Y-pose.Y, l.X-pose.X) - pose.Angle)
		if math.Abs(bearing) <= CullHalfFOV || dist < l.Radius {
			e.visible = append(e.visible, i)
		}
	}
}

// CalculateLighting returns the illumination at (x, y) in [0, 1]
func (e *Engine) CalculateLighting(x, y float64, pose geom.Pose, occ Occluder) float64 {
	total := e.Ambient()
	p := geom.Point{X: x, Y: y}

	for _, i := range e.visible {
		l := &e.lights[i]
		distSq := geom.DistanceSquared(p, geom.Point{X: l.X, Y: l.Y})

		if distSq >= l.Radius*l.Radius {
			continue
		}
		if !HasLineOfSight(l.X, l.Y, x, y, occ) {
			continue
		}

		atten := 1 - math.Sqrt(distSq)/l.Radius
		total += l.Intensity * atten * atten
	}

	total += e.flashlightContribution(x, y, pose, occ)

	return geom.Clamp(total, 0, 1)
}

// HasLineOfSight marches from (x1, y1) toward (x2, y2), stopping just short
// of the destination so a lit wall does not occlude itself.
func HasLineOfSight(x1, y1, x2, y2 float64, occ Occluder) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < losStopShort {
		return true
	}

	checkDist := dist - losStopShort
	if checkDist < losStopShort {
		return true
	}

	dirX := dx / dist
	dirY := dy / dist
	steps := int(checkDist*2) + 1

	for i := 0; i <= steps; i++ {
		t := checkDist * float64(i) / float64(steps)
		cx := x1 + dirX*t
		cy := y1 + dirY*t
		if occ.IsWall(int(math.Floor(cx)), int(math.Floor(cy))) {
			return false
		}
	}

	return true
}

// Telemetry returns the current flashlight and culling state
func (e *Engine) Telemetry() Telemetry {
	return Telemetry{
		Battery:       e.flashlight.Battery,
		Enabled:       e.flashlight.Enabled,
		Active:        e.flashlight.Active(),
		LowBattery:    e.flashlight.Battery < FlickerThreshold,
		VisibleLights: len(e.visible),
		StaticLights:  len(e.lights),
	}
}
