package sim

import "github.com/pthm-cable/fireworks/palette"

// CrysanthemumShell is the classic round burst: a quarter of them glitter,
// most are one colour and the rest split between two.
func (e *Engine) CrysanthemumShell(size float64) ShellConfig {
	glitter := e.rng.Float64() < 0.25

	cfg := e.DefaultShellConfig()
	cfg.Size = size
	cfg.SpreadSize = 300 + size*100
	cfg.StarLife = 900 + size*200
	cfg.StarDensity = 1.25
	if glitter {
		cfg.StarDensity = 1.1
		cfg.Glitter = "light"
	}
	if e.rng.Float64() < 0.72 {
		cfg.Color = Single(palette.Random(e.rng))
	} else {
		cfg.Color = Split(palette.Random(e.rng), palette.Random(e.rng))
	}
	cfg.GlitterColor = palette.Gold
	return cfg
}

// HorsetailShell is a long-lived, heavily glittering burst whose stars fall
// like a tail. Its comet flies faster on a shorter fuse.
func (e *Engine) HorsetailShell(size float64) ShellConfig {
	color := palette.Random(e.rng)

	cfg := e.DefaultShellConfig()
	cfg.Size = size
	cfg.Horsetail = true
	cfg.Color = Single(color)
	cfg.SpreadSize = 250 + size*38
	cfg.StarLife = 2500 + size*300
	cfg.Glitter = "medium"
	cfg.GlitterColor = color
	if e.rng.Float64() < 0.5 {
		cfg.GlitterColor = palette.Gold
	}
	return cfg
}

// LaunchRandom builds a chrysanthemum of the given size and launches it at a
// random horizontal position, full height.
func (e *Engine) LaunchRandom(size float64) *Shell {
	s := e.NewShell(e.CrysanthemumShell(size))
	// A fresh shell is always idle.
	_ = s.Launch(e.rng.Float64()*0.8+0.1, 1)
	return s
}
