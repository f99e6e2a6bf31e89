package telemetry

import (
	"math"

	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

// Collector accumulates engine events within windows of simulated time and
// produces WindowStats.
type Collector struct {
	windowDurationMs float64

	// Current window tracking
	windowStartFrame int32
	windowStartMs    float64
	simMs            float64

	// Engine counters at the start of the window
	last sim.Counters

	// Sample buffers reused across flushes
	lives       []float64
	starSpeeds  []float64
	sparkSpeeds []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	ms := windowDurationSec * 1000
	if !(ms > 0) {
		ms = 1000
	}
	return &Collector{windowDurationMs: ms}
}

// Advance adds simulated milliseconds to the window clock.
func (c *Collector) Advance(simMs float64) {
	if simMs > 0 {
		c.simMs += simMs
	}
}

// SimTimeSec returns the simulated time seen so far.
func (c *Collector) SimTimeSec() float64 {
	return c.simMs / 1000
}

// ShouldFlush returns true if the current window has run its length.
func (c *Collector) ShouldFlush() bool {
	return c.simMs-c.windowStartMs >= c.windowDurationMs
}

// Flush produces a WindowStats from the engine and starts a new window.
func (c *Collector) Flush(frame int32, e *sim.Engine) WindowStats {
	now := e.Counters()
	delta := subCounters(now, c.last)

	c.lives = c.lives[:0]
	c.starSpeeds = c.starSpeeds[:0]
	c.sparkSpeeds = c.sparkSpeeds[:0]
	var lit [palette.Count]bool

	e.Stars().Each(func(p *sim.Particle) {
		c.lives = append(c.lives, p.Life)
		c.starSpeeds = append(c.starSpeeds, math.Hypot(p.SpeedX, p.SpeedY))
		lit[p.Color] = lit[p.Color] || p.Color.Drawn()
	})
	e.Sparks().Each(func(p *sim.Particle) {
		c.sparkSpeeds = append(c.sparkSpeeds, math.Hypot(p.SpeedX, p.SpeedY))
		lit[p.Color] = lit[p.Color] || p.Color.Drawn()
	})

	litColors := 0
	for _, on := range lit {
		if on {
			litColors++
		}
	}

	lifeMean, lifeP50, lifeP90 := ComputeLifeStats(c.lives)
	speedMean, speedStd := ComputeSpeedStats(c.starSpeeds)
	sparkMean, _ := ComputeSpeedStats(c.sparkSpeeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		SimTimeSec:       c.SimTimeSec(),

		Stars:  e.Stars().Len(),
		Sparks: e.Sparks().Len(),

		Launches:      delta.Launches,
		Bursts:        delta.Bursts,
		StarsSpawned:  delta.StarsSpawned,
		SparksEmitted: delta.SparksEmitted,
		WordBursts:    delta.WordBursts,
		WordSparks:    delta.WordSparks,
		Expired:       delta.Expired,

		StarLifeMean:  lifeMean,
		StarLifeP50:   lifeP50,
		StarLifeP90:   lifeP90,
		StarSpeedMean: speedMean,
		StarSpeedStd:  speedStd,

		SparkSpeedMean: sparkMean,

		LitColors:      litColors,
		EffectiveSpeed: e.LastSpeed(),
		Quality:        e.Quality(),
	}

	// Reset for next window
	c.windowStartFrame = frame
	c.windowStartMs = c.simMs
	c.last = now

	return stats
}

func subCounters(a, b sim.Counters) sim.Counters {
	return sim.Counters{
		Launches:      a.Launches - b.Launches,
		Bursts:        a.Bursts - b.Bursts,
		StarsSpawned:  a.StarsSpawned - b.StarsSpawned,
		SparksEmitted: a.SparksEmitted - b.SparksEmitted,
		WordBursts:    a.WordBursts - b.WordBursts,
		WordSparks:    a.WordSparks - b.WordSparks,
		Expired:       a.Expired - b.Expired,
	}
}
