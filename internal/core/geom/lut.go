package geom

import (
	"math"
	"sync"
)

// LUTSize is the number of entries per full turn in the trig tables
const LUTSize = 4096

var (
	lutOnce sync.Once
	sinLUT  [LUTSize + 1]float64
	cosLUT  [LUTSize + 1]float64
)

func buildLUT() {
	for i := 0; i <= LUTSize; i++ {
		rad := TwoPi * float64(i) / LUTSize
		sinLUT[i] = math.Sin(rad)
		cosLUT[i] = math.Cos(rad)
	}
}

// Sincos returns sin and cos of angle from a lookup table with linear
// interpolation between entries. The table is built on first use.
// Results are bounded to [-1, 1] and monotonic between table entries.
func Sincos(angle float64) (sin, cos float64) {
	lutOnce.Do(buildLUT)

	turns := angle / TwoPi
	turns -= math.Floor(turns)
	pos := turns * LUTSize
	idx := int(pos)
	if idx >= LUTSize {
		idx = LUTSize - 1
	}
	frac := pos - float64(idx)

	sin = sinLUT[idx] + (sinLUT[idx+1]-sinLUT[idx])*frac
	cos = cosLUT[idx] + (cosLUT[idx+1]-cosLUT[idx])*frac
	return sin, cos
}
