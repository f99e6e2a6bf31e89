package sim

import (
	"math"
	"math/rand"
)

const (
	twoPi  = 2 * math.Pi
	halfPi = math.Pi / 2

	// burstJitter bounds the per-particle random angular offset as a
	// fraction of the ring's angular increment.
	burstJitter = 0.33
)

// Distribute spreads roughly count particles over the arc
// [startAngle, startAngle+arcLength) so that their areal density is close to
// uniform over a disk. The disk is treated as a hemisphere seen from above:
// rings run from the equator (ringSize 1, most particles) to the pole
// (ringSize near 0, fewest). emit receives each particle's angle in [0, 2pi)
// and its ringSize, which callers use as a radial speed multiplier.
//
// Returns the number of particles emitted.
func Distribute(rng *rand.Rand, count, startAngle, arcLength float64, emit func(angle, ringSize float64)) int {
	if count <= 0 || arcLength <= 0 || math.IsNaN(count) || math.IsInf(count, 0) {
		return 0
	}
	if arcLength > twoPi {
		arcLength = twoPi
	}

	r := 0.5 * math.Sqrt(count/math.Pi)
	c := twoPi * r
	cHalf := c / 2
	arcShare := arcLength / twoPi

	emitted := 0
	for ring := 0; float64(ring) <= cHalf; ring++ {
		ringSize := math.Cos(float64(ring) / cHalf * halfPi)
		if ringSize <= 0 {
			break
		}
		partsPerFullRing := c * ringSize
		partsPerArc := partsPerFullRing * arcShare
		angleInc := twoPi / partsPerFullRing
		angleOffset := rng.Float64()*angleInc + startAngle
		maxJitter := angleInc * burstJitter

		for i := 0; float64(i) < partsPerArc; i++ {
			angle := angleInc*float64(i) + angleOffset + rng.Float64()*maxJitter
			emit(wrapAngle(angle), ringSize)
			emitted++
		}
	}
	return emitted
}

// wrapAngle maps an angle into [0, 2pi).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
