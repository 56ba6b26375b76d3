package lighting

import (
	"math"

	"chosenoffset.com/lumenexit/internal/core/geom"
)

// Flashlight defaults
const (
	MaxBattery          = 100.0
	FlashlightRadius    = 12.0
	FlashlightHalfAngle = 1.2 // Radians either side of the facing direction
	DrainRate           = 3.0 // Percent per second while in use
	RechargeRate        = 20.0
	FlickerThreshold    = 20.0 // Battery percent below which the beam flickers
	FlashlightGain      = 2.5
	minFlashlightDistSq = 0.0001
)

// Flashlight is the player-carried cone light. It lives outside the light
// list and survives maze changes.
type Flashlight struct {
	Enabled      bool
	Battery      float64 // Percent, always within [0, MaxBattery]
	Radius       float64
	HalfAngle    float64
	DrainRate    float64
	RechargeRate float64
}

// DefaultFlashlight returns an enabled, fully charged flashlight
func DefaultFlashlight() Flashlight {
	return Flashlight{
		Enabled:      true,
		Battery:      MaxBattery,
		Radius:       FlashlightRadius,
		HalfAngle:    FlashlightHalfAngle,
		DrainRate:    DrainRate,
		RechargeRate: RechargeRate,
	}
}

// Active reports whether the flashlight is on and has charge
func (f Flashlight) Active() bool {
	return f.Enabled && f.Battery > 0
}

// flickerMultiplier scales the beam by battery level. Below the threshold it
// oscillates with the battery value itself, so it is reproducible.
func (f Flashlight) flickerMultiplier() float64 {
	m := f.Battery / MaxBattery
	if f.Battery < FlickerThreshold {
		m *= 0.5 + 0.5*math.Sin(f.Battery*10)
	}
	return m
}

// UpdateFlashlight advances the battery by dt seconds. Safe rooms recharge and
// take priority over draining.
func (e *Engine) UpdateFlashlight(dt float64, isUsing, inSafeRoom bool) {
	f := &e.flashlight

	if inSafeRoom && f.Battery < MaxBattery {
		f.Battery = math.Min(f.Battery+f.RechargeRate*dt, MaxBattery)
	} else if isUsing && f.Enabled && f.Battery > 0 {
		f.Battery = math.Max(f.Battery-f.DrainRate*dt, 0)
	}
}

func (e *Engine) flashlightContribution(x, y float64, pose geom.Pose, occ Occluder) float64 {
	f := &e.flashlight
	if !f.Active() {
		return 0
	}

	dx := x - pose.X
	dy := y - pose.Y
	distSq := geom.DistanceSquared(pose.Position(), geom.Point{X: x, Y: y})
	if distSq >= f.Radius*f.Radius || distSq <= minFlashlightDistSq {
		return 0
	}

	diff := math.Abs(geom.NormalizeAngle(math.Atan2(dy, dx) - pose.Angle))
	if diff >= f.HalfAngle {
		return 0
	}
	if !HasLineOfSight(pose.X, pose.Y, x, y, occ) {
		return 0
	}

	distAtten := 1 - math.Sqrt(distSq)/f.Radius
	distAtten = distAtten * distAtten * distAtten

	angleAtten := 1 - diff/f.HalfAngle
	angleAtten *= angleAtten

	return distAtten * angleAtten * f.flickerMultiplier() * FlashlightGain
}

// Flashlight returns a copy of the flashlight state
func (e *Engine) Flashlight() Flashlight {
	return e.flashlight
}

// FlashlightActive reports whether the flashlight is on and has charge
func (e *Engine) FlashlightActive() bool {
	return e.flashlight.Active()
}

// FlashlightEnabled reports whether the flashlight switch is on
func (e *Engine) FlashlightEnabled() bool {
	return e.flashlight.Enabled
}

// SetFlashlightEnabled turns the flashlight on or off
func (e *Engine) SetFlashlightEnabled(enabled bool) {
	e.flashlight.Enabled = enabled
}

// ToggleFlashlight flips the flashlight switch and returns the new state
func (e *Engine) ToggleFlashlight() bool {
	e.flashlight.Enabled = !e.flashlight.Enabled
	return e.flashlight.Enabled
}

// Battery returns the battery charge in percent
func (e *Engine) Battery() float64 {
	return e.flashlight.Battery
}

// SetBattery sets the battery charge, clamped to [0, MaxBattery]
func (e *Engine) SetBattery(percent float64) {
	e.flashlight.Battery = geom.Clamp(percent, 0, MaxBattery)
}

// RechargeBattery adds amount percent of charge
func (e *Engine) RechargeBattery(amount float64) {
	e.SetBattery(e.flashlight.Battery + amount)
}

// ResetFlashlight restores the default flashlight
func (e *Engine) ResetFlashlight() {
	e.flashlight = DefaultFlashlight()
}

// TransferFlashlight copies the flashlight state from another engine.
// A new maze keeps the battery the player walked in with.
func (e *Engine) TransferFlashlight(from *Engine) {
	if from != nil {
		e.flashlight = from.flashlight
	}
}
