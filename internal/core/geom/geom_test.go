package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"inside range", 1.0, 1.0},
		{"pi stays", math.Pi, math.Pi},
		{"one full turn", TwoPi + 0.5, 0.5},
		{"negative wrap", -math.Pi - 0.5, math.Pi - 0.5},
		{"many turns", 7*TwoPi - 0.25, -0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAngle(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got < -math.Pi || got > math.Pi {
				t.Errorf("NormalizeAngle(%v) = %v is outside [-pi, pi]", tt.in, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 {
		t.Error("Expected value below range to clamp to lower bound")
	}
	if Clamp(2, 0, 1) != 1 {
		t.Error("Expected value above range to clamp to upper bound")
	}
	if Clamp(0.25, 0, 1) != 0.25 {
		t.Error("Expected value inside range to pass through")
	}
	if ClampInt(300, 0, 255) != 255 {
		t.Error("Expected ClampInt to cap at 255")
	}
}

func TestDistance(t *testing.T) {
	a := Point{X: 1, Y: 2}
	b := Point{X: 4, Y: 6}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := DistanceSquared(a, b); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
	if got := Distance(a, a); got != 0 {
		t.Errorf("Distance to self = %v, want 0", got)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, want float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0.35, 0, 0.5, 0.175},
		{-2, 2, 0.25, -1},
	}
	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestSincosMatchesMath(t *testing.T) {
	for a := -10.0; a <= 10.0; a += 0.0137 {
		s, c := Sincos(a)
		if math.Abs(s-math.Sin(a)) > 1e-5 {
			t.Fatalf("Sincos(%v) sin = %v, math.Sin = %v", a, s, math.Sin(a))
		}
		if math.Abs(c-math.Cos(a)) > 1e-5 {
			t.Fatalf("Sincos(%v) cos = %v, math.Cos = %v", a, c, math.Cos(a))
		}
		if s < -1 || s > 1 || c < -1 || c > 1 {
			t.Fatalf("Sincos(%v) out of bounds: %v, %v", a, s, c)
		}
	}
}

func TestSincosExactAtZero(t *testing.T) {
	s, c := Sincos(0)
	if s != 0 || c != 1 {
		t.Errorf("Expected (0, 1) at angle 0, got (%v, %v)", s, c)
	}
}

func TestPoseDirectionCache(t *testing.T) {
	p := NewPose(1.5, 2.5, 0)
	if p.DirX != 1 || p.DirY != 0 {
		t.Fatalf("Expected facing +X, got (%v, %v)", p.DirX, p.DirY)
	}

	p.Rotate(math.Pi / 2)
	if math.Abs(p.DirX) > 1e-6 || math.Abs(p.DirY-1) > 1e-6 {
		t.Errorf("Expected facing +Y after quarter turn, got (%v, %v)", p.DirX, p.DirY)
	}
	if p.Angle != math.Pi/2 {
		t.Errorf("Expected angle pi/2, got %v", p.Angle)
	}
}

func TestPointCell(t *testing.T) {
	c := Point{X: 2.9, Y: -0.1}.Cell()
	if c.X != 2 || c.Y != -1 {
		t.Errorf("Expected cell (2, -1), got (%d, %d)", c.X, c.Y)
	}
}
