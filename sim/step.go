package sim

import (
	"math"

	"github.com/pthm-cable/fireworks/palette"
)

// Advance steps the simulation by frameTimeMs, deriving the catch-up lag
// from the configured nominal frame duration.
func (e *Engine) Advance(frameTimeMs float64) {
	e.Step(frameTimeMs, frameTimeMs/e.cfg.Simulation.FrameMS)
}

// Step advances every active particle by one frame.
//
// Lives drop by frameTimeMs*simSpeed; positions, drag and gravity scale with
// the effective speed simSpeed*lag so slow motion and catch-up frames stay
// physically consistent. Sparks are advanced before stars so sparks emitted
// this frame first move on the next one. Death events are dispatched after
// both populations are advanced, so stars spawned by a burst also start
// moving on the next frame. A non-positive frame time is a no-op.
func (e *Engine) Step(frameTimeMs, lag float64) {
	if !(frameTimeMs > 0) || !(lag > 0) || math.IsInf(frameTimeMs, 0) || math.IsInf(lag, 0) {
		return
	}

	timeStep := frameTimeMs * e.simSpeed
	speed := e.simSpeed * lag
	gAcc := timeStep / 1000 * e.cfg.Simulation.Gravity

	starDrag := dragFactor(e.cfg.Stars.AirDrag, speed)
	heavyDrag := dragFactor(e.cfg.Stars.AirDragHeavy, speed)
	sparkDrag := dragFactor(e.cfg.Sparks.AirDrag, speed)

	e.lastSpeed = speed

	for c := range palette.Count {
		e.stepSparks(palette.Color(c), timeStep, speed, sparkDrag, gAcc)
	}
	for c := range palette.Count {
		e.stepStars(palette.Color(c), timeStep, speed, starDrag, heavyDrag, gAcc)
	}

	for i := range e.pending {
		e.dispatch(e.pending[i])
		e.pending[i] = deathRecord{}
	}
	e.pending = e.pending[:0]
}

// dragFactor converts a per-frame air drag coefficient into the multiplier
// for an effective speed.
func dragFactor(airDrag, speed float64) float64 {
	return 1 - (1-airDrag)*speed
}

func (e *Engine) stepSparks(c palette.Color, timeStep, speed, drag, gAcc float64) {
	pool := e.sparks
	for i := len(pool.buckets[c]) - 1; i >= 0; i-- {
		p := pool.buckets[c][i]
		p.Life -= timeStep
		if p.Life <= 0 {
			pool.removeAt(c, i)
			e.pending = append(e.pending, deathRecord{ev: pool.recycle(p), x: p.X, y: p.Y})
			e.counters.Expired++
			continue
		}
		integrate(p, speed, drag, gAcc)
	}
}

func (e *Engine) stepStars(c palette.Color, timeStep, speed, drag, heavyDrag, gAcc float64) {
	pool := e.stars
	for i := len(pool.buckets[c]) - 1; i >= 0; i-- {
		p := pool.buckets[c][i]
		p.Life -= timeStep
		if p.Life <= 0 {
			x, y := p.X, p.Y
			pool.removeAt(c, i)
			e.pending = append(e.pending, deathRecord{ev: pool.recycle(p), x: x, y: y})
			e.counters.Expired++
			continue
		}

		d := drag
		if p.Heavy {
			d = heavyDrag
		}
		integrate(p, speed, d, gAcc)

		if p.SparkFreq > 0 {
			p.SparkTimer -= timeStep
			for p.SparkTimer < 0 {
				p.SparkTimer += p.SparkFreq
				e.sparks.Add(p.X, p.Y, p.SparkColor, e.rng.Float64()*twoPi, e.rng.Float64()*p.SparkSpeed, p.SparkLife)
				e.counters.SparksEmitted++
			}
		}
	}
}

// integrate snapshots the previous position, moves the particle and applies
// drag then gravity.
func integrate(p *Particle, speed, drag, gAcc float64) {
	p.PrevX, p.PrevY = p.X, p.Y
	p.X += p.SpeedX * speed
	p.Y += p.SpeedY * speed
	p.SpeedX *= drag
	p.SpeedY *= drag
	p.SpeedY += gAcc
}
