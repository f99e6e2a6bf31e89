// Package renderer draws the simulation onto two layered surfaces: a
// persistent trails layer faded a little every frame, and a main layer
// cleared every frame for comet heads.
package renderer

import (
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

// Blend selects how strokes combine with what a layer already holds.
type Blend uint8

const (
	BlendNormal  Blend = iota
	BlendLighten       // per-channel max
	BlendAdd
)

// Segment is one line stroke in stage coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float32
}

// Layer is a drawing surface. Calls between Begin and End target the layer.
type Layer interface {
	Begin()
	End()
	// Fade darkens the whole layer towards black by alpha in [0,1].
	Fade(alpha float32)
	Clear()
	Strokes(color palette.Color, width float32, blend Blend, segs []Segment)
	// Flash draws a white radial gradient, opaque at the centre and
	// transparent at radius.
	Flash(x, y, radius float32)
}

// FrameStats counts what the last Render drew.
type FrameStats struct {
	TrailSegments int
	HeadSegments  int
	Flashes       int
	FadeAlpha     float32
}

// Compositor renders an engine onto a trails layer and a main layer.
type Compositor struct {
	cfg    *config.Config
	trails Layer
	main   Layer
	batch  *ParticleBatcher
	stats  FrameStats
}

// NewCompositor creates a compositor over two layers.
func NewCompositor(cfg *config.Config, trails, main Layer) *Compositor {
	return &Compositor{
		cfg:    cfg,
		trails: trails,
		main:   main,
		batch:  NewParticleBatcher(),
	}
}

// Render draws one frame:
//  1. fade the trails layer (near-zero in long exposure)
//  2. clear the main layer
//  3. per colour, stroke star trails and spark trails onto the trails layer
//     and white star heads onto the main layer, all with lighten blending
//  4. draw and release pending burst flashes on the trails layer
func (c *Compositor) Render(e *sim.Engine) {
	c.stats = FrameStats{FadeAlpha: FadeAlpha(c.cfg.Trails, e.LongExposure(), e.LastSpeed())}

	starWidth := float32(c.cfg.Stars.DrawWidth)
	sparkWidth := SparkWidth(c.cfg.Sparks, e.Quality())
	headLength := float32(c.cfg.Trails.HeadLength)

	c.main.Begin()
	c.main.Clear()
	if heads := c.batch.Heads(e.Stars(), headLength); len(heads) > 0 {
		c.main.Strokes(palette.White, starWidth, BlendLighten, heads)
		c.stats.HeadSegments = len(heads)
	}
	c.main.End()

	c.trails.Begin()
	c.trails.Fade(c.stats.FadeAlpha)
	for _, color := range palette.Visible {
		stars := c.batch.Trails(e.Stars().Bucket(color))
		if len(stars) > 0 {
			c.trails.Strokes(color, starWidth, BlendLighten, stars)
			c.stats.TrailSegments += len(stars)
		}
		sparks := c.batch.Trails(e.Sparks().Bucket(color))
		if len(sparks) > 0 {
			c.trails.Strokes(color, sparkWidth, BlendLighten, sparks)
			c.stats.TrailSegments += len(sparks)
		}
	}
	e.DrainFlashes(func(f sim.BurstFlash) {
		c.trails.Flash(float32(f.X), float32(f.Y), float32(f.Radius))
		c.stats.Flashes++
	})
	c.trails.End()
}

// Stats returns what the last Render drew.
func (c *Compositor) Stats() FrameStats {
	return c.stats
}

// FadeAlpha is the trail fade for one frame. Normal mode scales the fade
// with the effective speed so trail length stays constant in time.
func FadeAlpha(tc config.TrailsConfig, longExposure bool, speed float64) float32 {
	a := tc.FadeAlpha * speed
	if longExposure {
		a = tc.LongExposureAlpha
	}
	if a < 0 || a != a {
		return 0
	}
	if a > 1 {
		return 1
	}
	return float32(a)
}

// SparkWidth is the spark stroke width: thinner at high quality where there
// are more of them.
func SparkWidth(sc config.SparksConfig, quality int) float32 {
	if quality >= config.QualityHigh {
		return float32(sc.DrawWidthHigh)
	}
	return float32(sc.DrawWidth)
}
