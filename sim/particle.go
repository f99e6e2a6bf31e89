// Package sim implements the fireworks particle simulation: pooled star and
// spark populations, shells, the radial burst distributor, word bursts and
// the per-frame integration step.
package sim

import "github.com/pthm-cable/fireworks/palette"

// Population identifies which pool a particle belongs to.
type Population uint8

const (
	PopStars Population = iota
	PopSparks
)

func (p Population) String() string {
	if p == PopStars {
		return "stars"
	}
	return "sparks"
}

// Spark emission defaults applied to every freshly added star.
const (
	defaultSparkSpeed         = 1.0
	defaultSparkLife          = 750.0
	defaultSparkLifeVariation = 0.25
)

// DeathKind selects what happens when a particle expires.
type DeathKind uint8

const (
	DeathNone    DeathKind = iota
	DeathBurst             // comet fuse expired: burst its shell
	DeathCrackle           // glitter star: maybe play a crackle cue
)

// DeathEvent is the tagged action a particle carries until it is retired.
// It is cleared on recycle so a reused record never replays it.
type DeathEvent struct {
	Kind   DeathKind
	Shell  *Shell  // DeathBurst
	Cue    string  // DeathCrackle
	Chance float64 // DeathCrackle probability in [0,1]
}

// Particle is a pooled star or spark record. Positions are stage pixels,
// speeds are pixels per nominal frame and lives are milliseconds.
//
// A *Particle handed out by a Pool is only valid until the particle expires;
// after that the pool may reuse the record for an unrelated particle.
type Particle struct {
	X, Y           float64
	PrevX, PrevY   float64 // position one step ago, for trail segments only
	SpeedX, SpeedY float64
	Color          palette.Color
	Life           float64
	FullLife       float64

	// Star only
	Heavy              bool
	SparkFreq          float64 // ms between emitted sparks, 0 = none
	SparkSpeed         float64
	SparkLife          float64
	SparkLifeVariation float64 // carried from the glitter style; emitted sparks live exactly SparkLife
	SparkTimer         float64
	SparkColor         palette.Color
	Death              DeathEvent

	pop    Population
	active bool
}

// Active reports whether the record currently belongs to a live particle.
func (p *Particle) Active() bool {
	return p.active
}

// Population returns the pool the particle belongs to.
func (p *Particle) Population() Population {
	return p.pop
}
