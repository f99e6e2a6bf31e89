package sim

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/fireworks/palette"
)

// ColorPolicy colours word-burst sparks: one fixed colour, or an independent
// random draw per point.
type ColorPolicy struct {
	Random bool
	Color  palette.Color
}

// FixedColor colours every point the same.
func FixedColor(c palette.Color) ColorPolicy {
	return ColorPolicy{Color: c}
}

// RandomColors gives every point its own random colour.
func RandomColors() ColorPolicy {
	return ColorPolicy{Random: true}
}

// WordBurst spawns one slow, long-lived spark per rasterized sample of text,
// centred on (x, y), at the configured font size. Returns the sparks spawned.
func (e *Engine) WordBurst(text string, x, y float64, policy ColorPolicy) int {
	return e.WordBurstScaled(text, x, y, 1, policy)
}

// WordBurstScaled is WordBurst with the configured font size multiplied by scale.
// A missing rasterizer or empty result is a silent no-op.
func (e *Engine) WordBurstScaled(text string, x, y, scale float64, policy ColorPolicy) int {
	if e.text == nil || !(scale > 0) {
		return 0
	}
	wc := e.cfg.WordBurst
	cloud := e.text.Rasterize(text, wc.Gap, wc.FontFamily, math.Floor(wc.FontSize*scale))
	if cloud == nil || len(cloud.Points) == 0 {
		slog.Debug("word burst has no points", "text", text)
		return 0
	}

	cx, cy := cloud.Width/2, cloud.Height/2
	for _, pt := range cloud.Points {
		px := clampRange(x+pt.X-cx, 0, e.stageW)
		py := clampRange(y+pt.Y-cy, 0, e.stageH)

		color := policy.Color
		if policy.Random {
			color = palette.Random(e.rng)
		}
		speed := math.Pow(e.rng.Float64(), wc.SpeedExponent) * wc.Speed
		e.sparks.Add(px, py, color, e.rng.Float64()*twoPi, speed, wc.Life)
	}

	n := len(cloud.Points)
	e.counters.WordBursts++
	e.counters.WordSparks += n
	return n
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
