package geom

// Pose is a position and facing in maze space. DirX/DirY cache the unit
// facing vector; they are only refreshed through SetAngle and Rotate so hot
// loops never call trig functions per sample.
type Pose struct {
	X, Y  float64
	Angle float64
	DirX  float64
	DirY  float64
}

// NewPose creates a pose with its direction cache filled in.
func NewPose(x, y, angle float64) Pose {
	p := Pose{X: x, Y: y}
	p.SetAngle(angle)
	return p
}

// SetAngle replaces the facing angle and refreshes the direction cache.
func (p *Pose) SetAngle(angle float64) {
	p.Angle = angle
	p.DirY, p.DirX = Sincos(angle)
}

// Rotate turns the pose by delta radians.
func (p *Pose) Rotate(delta float64) {
	p.SetAngle(p.Angle + delta)
}

// Position returns the pose location as a Point.
func (p Pose) Position() Point {
	return Point{X: p.X, Y: p.Y}
}
