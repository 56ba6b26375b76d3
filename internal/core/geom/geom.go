// Package geom holds the small amount of 2D math shared by the world,
// lighting and raycasting packages.
package geom

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Point represents a 2D point in maze space (one unit per grid cell)
type Point struct {
	X, Y float64
}

// Coord represents a grid cell coordinate
type Coord struct {
	X, Y int
}

// Cell returns the grid cell containing the point.
func (p Point) Cell() Coord {
	return Coord{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared skips the square root for range comparisons
func DistanceSquared(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// NormalizeAngle wraps an angle into [-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	a = math.Mod(a+math.Pi, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a - math.Pi
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt restricts v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
