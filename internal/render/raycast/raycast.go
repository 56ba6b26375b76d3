// Package raycast renders the maze from a first-person pose by casting one
// DDA ray per screen column and lighting each column volumetrically.
package raycast

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/render/lighting"
)

// Renderer constants
const (
	DefaultFOV      = math.Pi / 3
	MaxRayDistance  = 64.0
	MinDistance     = 0.1 // Floor for corrected distances before projection
	MaxHeightFactor = 10  // Wall slices are capped at this many screen heights
	NearWallDist    = 4.0 // HIGH tier takes extra samples closer than this
	SampleDistCap   = 15.0
	FogDistanceLit  = 6.0 // Fog distance with an active flashlight
	FogDistanceDark = 2.5
	FogAmbient      = 0.08 // Ambient share of a column that fog may remove
	VerticalShade   = 1.0
	HorizontalShade = 0.94
	CeilingScale    = 20.0
	FloorScale      = 30.0
	wallBlend       = 0.4 // Weight of the hit-point lighting in the column average
	zeroDirDelta    = 1e30
)

// Quality selects how many volumetric lighting samples each column takes.
type Quality int

// Lighting quality tiers
const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Next returns the following tier, wrapping from high to low.
func (q Quality) Next() Quality {
	return (q + 1) % (QualityHigh + 1)
}

// ParseQuality converts a tier name to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return QualityLow, nil
	case "medium", "med":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	default:
		return QualityHigh, fmt.Errorf("unknown lighting quality %q", s)
	}
}

// Occluder answers whether a grid cell stops rays.
type Occluder = lighting.Occluder

// LightField is the lighting the renderer samples along each ray.
// Implementations must be safe for concurrent reads.
type LightField interface {
	CalculateLighting(x, y float64, pose geom.Pose, occ Occluder) float64
	FlashlightActive() bool
}

// Config holds the renderer settings
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	FOV          float64 // Radians, 0 = DefaultFOV
	Quality      Quality
	Workers      int // Column workers per pass, <= 1 renders on the caller's goroutine
}

// DefaultConfig returns a config for the given screen size using every CPU.
func DefaultConfig(width, height int) Config {
	return Config{
		ScreenWidth:  width,
		ScreenHeight: height,
		FOV:          DefaultFOV,
		Quality:      QualityHigh,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// RayHit describes where a ray met a wall
type RayHit struct {
	Distance float64 // Euclidean distance along the unit ray
	Vertical bool    // Hit an x-side (a face running north-south)
	HitX     float64
	HitY     float64
	MapX     int
	MapY     int
}

// CastRay walks the grid from (x, y) along the unit direction (dirX, dirY)
// until it enters a wall cell or passes MaxRayDistance.
func CastRay(x, y, dirX, dirY float64, grid Occluder) RayHit {
	mapX := int(math.Floor(x))
	mapY := int(math.Floor(y))

	deltaX := zeroDirDelta
	if dirX != 0 {
		deltaX = math.Abs(1 / dirX)
	}
	deltaY := zeroDirDelta
	if dirY != 0 {
		deltaY = math.Abs(1 / dirY)
	}

	var stepX, stepY int
	var sideX, sideY float64

	if dirX < 0 {
		stepX = -1
		sideX = (x - float64(mapX)) * deltaX
	} else {
		stepX = 1
		sideX = (float64(mapX) + 1 - x) * deltaX
	}
	if dirY < 0 {
		stepY = -1
		sideY = (y - float64(mapY)) * deltaY
	} else {
		stepY = 1
		sideY = (float64(mapY) + 1 - y) * deltaY
	}

	var dist float64
	vertical := false

	for {
		if sideX < sideY {
			dist = sideX
			sideX += deltaX
			mapX += stepX
			vertical = true
		} else {
			dist = sideY
			sideY += deltaY
			mapY += stepY
			vertical = false
		}

		if grid.IsWall(mapX, mapY) || dist > MaxRayDistance {
			break
		}
	}

	if dist > MaxRayDistance {
		dist = MaxRayDistance
	}

	return RayHit{
		Distance: dist,
		Vertical: vertical,
		HitX:     x + dirX*dist,
		HitY:     y + dirY*dist,
		MapX:     mapX,
		MapY:     mapY,
	}
}
