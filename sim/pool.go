package sim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/fireworks/palette"
)

// Pool holds one particle population: active particles bucketed by colour
// (append order within a bucket) plus a free-list of retired records.
type Pool struct {
	pop       Population
	buckets   [palette.Count][]*Particle
	free      []*Particle
	active    int
	allocated int // records ever created, for allocation tracking
}

// NewPool creates an empty pool for the given population.
func NewPool(pop Population) *Pool {
	return &Pool{pop: pop}
}

// Add activates a particle, reusing a free record when one exists.
// The angle is measured from "up" increasing clockwise in screen space,
// so angle 0 moves towards +y and angle pi moves towards -y.
func (p *Pool) Add(x, y float64, color palette.Color, angle, speed, life float64) *Particle {
	return p.AddWithOffset(x, y, color, angle, speed, life, 0, 0)
}

// AddWithOffset is Add with an extra velocity added after the polar conversion.
func (p *Pool) AddWithOffset(x, y float64, color palette.Color, angle, speed, life, offX, offY float64) *Particle {
	var pt *Particle
	if n := len(p.free); n > 0 {
		pt = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		pt = &Particle{}
		p.allocated++
	}

	*pt = Particle{
		X:                  x,
		Y:                  y,
		PrevX:              x,
		PrevY:              y,
		SpeedX:             math.Sin(angle)*speed + offX,
		SpeedY:             math.Cos(angle)*speed + offY,
		Color:              color,
		Life:               life,
		FullLife:           life,
		SparkSpeed:         defaultSparkSpeed,
		SparkLife:          defaultSparkLife,
		SparkLifeVariation: defaultSparkLifeVariation,
		SparkColor:         color,
		pop:                p.pop,
		active:             true,
	}

	p.buckets[color] = append(p.buckets[color], pt)
	p.active++
	return pt
}

// Retire removes an active particle from its bucket and recycles it.
// The particle's death event is returned for the caller to dispatch.
// Retiring a record that is not active in this pool is a programming error.
func (p *Pool) Retire(pt *Particle) DeathEvent {
	if pt == nil || !pt.active || pt.pop != p.pop {
		p.reportBadRetire(pt)
		return DeathEvent{}
	}
	bucket := p.buckets[pt.Color]
	for i := len(bucket) - 1; i >= 0; i-- {
		if bucket[i] == pt {
			p.removeAt(pt.Color, i)
			return p.recycle(pt)
		}
	}
	p.reportBadRetire(pt)
	return DeathEvent{}
}

// removeAt drops bucket[c][i] preserving order.
func (p *Pool) removeAt(c palette.Color, i int) {
	b := p.buckets[c]
	copy(b[i:], b[i+1:])
	b[len(b)-1] = nil
	p.buckets[c] = b[:len(b)-1]
}

// recycle clears the record's death event and pushes it onto the free-list.
func (p *Pool) recycle(pt *Particle) DeathEvent {
	ev := pt.Death
	pt.Death = DeathEvent{}
	pt.active = false
	p.free = append(p.free, pt)
	p.active--
	return ev
}

func (p *Pool) reportBadRetire(pt *Particle) {
	msg := fmt.Sprintf("sim: retire of inactive or foreign particle in %s pool", p.pop)
	if strictPool {
		panic(msg)
	}
	slog.Warn(msg, "population", p.pop.String(), "nil", pt == nil)
}

// Bucket returns the active particles of one colour. The slice is owned by
// the pool and must not be modified.
func (p *Pool) Bucket(c palette.Color) []*Particle {
	return p.buckets[c]
}

// Each calls fn for every active particle, bucket by bucket.
func (p *Pool) Each(fn func(*Particle)) {
	for c := range p.buckets {
		for _, pt := range p.buckets[c] {
			fn(pt)
		}
	}
}

// Len returns the number of active particles.
func (p *Pool) Len() int {
	return p.active
}

// FreeLen returns the number of records waiting for reuse.
func (p *Pool) FreeLen() int {
	return len(p.free)
}

// Allocated returns how many records the pool has ever created.
func (p *Pool) Allocated() int {
	return p.allocated
}

// Clear retires every active particle without dispatching death events.
func (p *Pool) Clear() {
	for c := range p.buckets {
		for _, pt := range p.buckets[c] {
			p.recycle(pt)
		}
		clear(p.buckets[c])
		p.buckets[c] = p.buckets[c][:0]
	}
}
