// Package stage describes the rendering surface: its logical size in stage
// pixels, the device pixel ratio and the mapping to window pixels.
package stage

import (
	"math"

	"github.com/pthm-cable/fireworks/config"
)

// Stage maps stage coordinates (what the simulation works in) to window
// pixels. Window pixels are stage pixels scaled by the device pixel ratio.
type Stage struct {
	// Logical size in stage pixels
	Width, Height float32

	// Device pixel ratio (>= 1)
	DPR float32

	listeners []func(w, h float32)
}

// New creates a stage. Dimensions are clamped to [1, max] and the ratio to >= 1.
func New(width, height, dpr float32) *Stage {
	s := &Stage{DPR: clampDPR(dpr)}
	s.Width, s.Height = clampSize(width, height)
	return s
}

// FromConfig creates a stage from the derived screen configuration.
func FromConfig(cfg *config.Config) *Stage {
	return New(float32(cfg.Derived.StageW), float32(cfg.Derived.StageH), float32(cfg.Derived.DPR))
}

// OnResize registers fn to run after every size change.
func (s *Stage) OnResize(fn func(w, h float32)) {
	s.listeners = append(s.listeners, fn)
}

// Resize sets the stage size from window pixels. Returns false when the
// clamped size did not change.
func (s *Stage) Resize(windowW, windowH float32) bool {
	w, h := clampSize(windowW/s.DPR, windowH/s.DPR)
	if w == s.Width && h == s.Height {
		return false
	}
	s.Width, s.Height = w, h
	for _, fn := range s.listeners {
		fn(w, h)
	}
	return true
}

// PixelSize returns the backing surface size in window pixels.
func (s *Stage) PixelSize() (int32, int32) {
	return int32(math.Ceil(float64(s.Width * s.DPR))), int32(math.Ceil(float64(s.Height * s.DPR)))
}

// ToScreen converts stage coordinates to window pixels.
func (s *Stage) ToScreen(x, y float32) (float32, float32) {
	return x * s.DPR, y * s.DPR
}

// ToStage converts window pixels (e.g. the mouse) to stage coordinates.
func (s *Stage) ToStage(sx, sy float32) (float32, float32) {
	return sx / s.DPR, sy / s.DPR
}

// Fraction converts a stage point to launch fractions: horizontal position
// across the width and height measured up from the bottom.
func (s *Stage) Fraction(x, y float32) (float64, float64) {
	return float64(clamp(x/s.Width, 0, 1)), float64(clamp(1-y/s.Height, 0, 1))
}

// IsVisible returns true if a circle at (x, y) with the given radius could
// overlap the stage (conservative check for culling).
func (s *Stage) IsVisible(x, y, radius float32) bool {
	return x+radius >= 0 && x-radius <= s.Width && y+radius >= 0 && y-radius <= s.Height
}

// Center returns the middle of the stage.
func (s *Stage) Center() (float32, float32) {
	return s.Width / 2, s.Height / 2
}

func clampSize(w, h float32) (float32, float32) {
	cw, ch := config.ClampStage(float64(w), float64(h))
	return float32(cw), float32(ch)
}

func clampDPR(dpr float32) float32 {
	if dpr < 1 || dpr != dpr {
		return 1
	}
	return dpr
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
