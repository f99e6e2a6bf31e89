package renderer

import (
	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

// ParticleBatcher turns a colour bucket into stroke segments. The returned
// slices are reused by the next call of the same kind.
type ParticleBatcher struct {
	trails []Segment
	heads  []Segment
}

// NewParticleBatcher creates a batcher.
func NewParticleBatcher() *ParticleBatcher {
	return &ParticleBatcher{
		trails: make([]Segment, 0, 1024),
		heads:  make([]Segment, 0, 64),
	}
}

// Trails returns one segment per particle from its current to its previous
// position.
func (b *ParticleBatcher) Trails(particles []*sim.Particle) []Segment {
	b.trails = b.trails[:0]
	for _, p := range particles {
		b.trails = append(b.trails, Segment{
			X1: float32(p.X),
			Y1: float32(p.Y),
			X2: float32(p.PrevX),
			Y2: float32(p.PrevY),
		})
	}
	return b.trails
}

// Heads returns the short streak drawn ahead of every visible star: from
// its position back along its velocity by length frames.
func (b *ParticleBatcher) Heads(stars *sim.Pool, length float32) []Segment {
	b.heads = b.heads[:0]
	for _, color := range palette.Visible {
		for _, p := range stars.Bucket(color) {
			x, y := float32(p.X), float32(p.Y)
			b.heads = append(b.heads, Segment{
				X1: x,
				Y1: y,
				X2: x - float32(p.SpeedX)*length,
				Y2: y - float32(p.SpeedY)*length,
			})
		}
	}
	return b.heads
}
