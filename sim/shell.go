package sim

import (
	"errors"
	"log/slog"
	"math"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/palette"
)

// Shell lifecycle errors.
var (
	ErrAlreadyLaunched = errors.New("shell already launched")
	ErrNotLaunched     = errors.New("shell not in flight")
)

// ColorMode selects how a shell colours its stars.
type ColorMode uint8

const (
	ColorAuto   ColorMode = iota // pick one random colour when the shell is created
	ColorSingle                  // every star uses Primary (may be Invisible)
	ColorSplit                   // half the stars Primary, half Secondary
	ColorRandom                  // each star draws its own random colour
)

// ShellColor is the colour recipe of a shell.
type ShellColor struct {
	Mode      ColorMode
	Primary   palette.Color
	Secondary palette.Color
}

// Single returns a one-colour recipe.
func Single(c palette.Color) ShellColor {
	return ShellColor{Mode: ColorSingle, Primary: c}
}

// Split returns a two-colour recipe.
func Split(a, b palette.Color) ShellColor {
	return ShellColor{Mode: ColorSplit, Primary: a, Secondary: b}
}

// ShellConfig is the recipe for one firework.
type ShellConfig struct {
	Size              float64 // nominal shell size, picks the burst cue
	SpreadSize        float64 // burst radius in px
	StarLife          float64 // ms
	StarLifeVariation float64 // life = StarLife * (1 + rand*variation)
	StarDensity       float64
	StarCount         int // 0 = derived from spread and density
	Color             ShellColor
	Glitter           string        // key into the glitter table, empty = none
	GlitterColor      palette.Color // colour of glitter sparks
	Horsetail         bool          // faster, shorter-fused comet
}

// ShellState is the lifecycle position of a shell.
type ShellState uint8

const (
	ShellIdle ShellState = iota
	ShellLaunched
	ShellBursting
	ShellDone
)

func (s ShellState) String() string {
	switch s {
	case ShellIdle:
		return "idle"
	case ShellLaunched:
		return "launched"
	case ShellBursting:
		return "bursting"
	default:
		return "done"
	}
}

// Shell is a transient launch-then-burst firework. It holds a back-reference
// to its comet only while the comet is in flight.
type Shell struct {
	engine *Engine
	cfg    ShellConfig
	state  ShellState
	comet  *Particle
}

// DefaultShellConfig returns a recipe with the configured defaults filled in.
func (e *Engine) DefaultShellConfig() ShellConfig {
	return ShellConfig{
		Size:              1,
		SpreadSize:        400,
		StarLife:          1100,
		StarLifeVariation: e.cfg.Shell.StarLifeVariation,
		StarDensity:       e.cfg.Shell.StarDensity,
		GlitterColor:      palette.Gold,
	}
}

// NewShell creates an idle shell from a recipe. Missing values are derived:
// an automatic colour becomes one random colour and a zero star count
// becomes max(min, (spread/divisor)^2 * density).
func (e *Engine) NewShell(cfg ShellConfig) *Shell {
	if cfg.Color.Mode == ColorAuto {
		cfg.Color = Single(palette.Random(e.rng))
	}
	cfg.SpreadSize = nonNegative(cfg.SpreadSize)
	cfg.StarLife = nonNegative(cfg.StarLife)
	cfg.StarLifeVariation = nonNegative(cfg.StarLifeVariation)
	if !(cfg.StarDensity > 0) {
		cfg.StarDensity = 1
	}
	if cfg.StarCount <= 0 {
		cfg.StarCount = e.derivedStarCount(cfg.SpreadSize, cfg.StarDensity)
	}
	return &Shell{engine: e, cfg: cfg}
}

func (e *Engine) derivedStarCount(spread, density float64) int {
	floor := e.cfg.Shell.MinStarCount
	div := e.cfg.Shell.CountDivisor
	if div <= 0 || !(spread > 0) {
		return floor
	}
	scaled := spread / div
	n := int(scaled * scaled * density)
	if n < floor {
		return floor
	}
	return n
}

// Config returns the normalised recipe.
func (s *Shell) Config() ShellConfig {
	return s.cfg
}

// State returns the lifecycle state.
func (s *Shell) State() ShellState {
	return s.state
}

// StarCount returns the number of stars the burst aims for.
func (s *Shell) StarCount() int {
	return s.cfg.StarCount
}

// Comet returns the in-flight comet, or nil once it has burst or been
// cleared.
func (s *Shell) Comet() *Particle {
	return s.comet
}

// abandon ends a launched shell whose comet was dropped without dying.
func (s *Shell) abandon() {
	if s.state != ShellLaunched {
		return
	}
	s.comet = nil
	s.state = ShellDone
}

// LaunchVelocity converts a vertical launch distance into the comet's speed.
// The power law keeps short shells from looking sluggish and tall ones from
// looking unrealistically fast.
func LaunchVelocity(distance float64, lc config.LaunchConfig) float64 {
	if !(distance > 0) {
		return 0
	}
	return math.Pow(distance*lc.VelocityScale, lc.VelocityExponent)
}

// Launch fires the comet. position is the horizontal fraction of the padded
// stage width, launchHeight the fraction between the minimum burst height and
// the top padding. Both are clamped to [0,1].
func (s *Shell) Launch(position, launchHeight float64) error {
	if s.state != ShellIdle {
		return ErrAlreadyLaunched
	}
	e := s.engine
	lc := e.cfg.Launch
	cc := e.cfg.Comet
	w, h := e.stageW, e.stageH

	position = clamp01(position)
	launchHeight = clamp01(launchHeight)

	minHeight := h - h*lc.MinHeightPercent
	launchX := position*(w-lc.HPad*2) + lc.HPad
	if launchX < 0 || launchX > w {
		launchX = w / 2
	}
	launchY := h
	burstY := minHeight - launchHeight*(minHeight-lc.VPad)
	velocity := LaunchVelocity(launchY-burstY, lc)

	speed, fuse := velocity, velocity*lc.FuseFactor
	if s.cfg.Horsetail {
		speed, fuse = velocity*lc.HorsetailSpeed, velocity*lc.HorsetailFuse
	}

	cometColor := palette.White
	if s.cfg.Color.Mode == ColorSingle {
		cometColor = s.cfg.Color.Primary
	}

	comet := e.stars.Add(launchX, launchY, cometColor, math.Pi, speed, fuse)
	comet.Heavy = true
	comet.SparkFreq = cc.SparkFreq / float64(e.quality)
	if e.quality == config.QualityHigh {
		comet.SparkFreq = cc.SparkFreqHigh
	}
	comet.SparkSpeed = cc.SparkSpeed
	comet.SparkLife = cc.SparkLife
	comet.SparkLifeVariation = cc.SparkLifeVariation
	if cometColor == palette.Invisible {
		comet.SparkColor = palette.Gold
	}
	comet.Death = DeathEvent{Kind: DeathBurst, Shell: s}

	s.comet = comet
	s.state = ShellLaunched
	e.counters.Launches++
	e.sounds.PlaySound(CueLift, 1)

	slog.Debug("shell launched", "x", launchX, "burst_y", burstY, "velocity", velocity, "fuse_ms", fuse)
	return nil
}

// Burst explodes the shell at (x, y). It normally runs from the comet's
// death event once the fuse (the comet's life) runs out.
func (s *Shell) Burst(x, y float64) error {
	if s.state != ShellLaunched {
		return ErrNotLaunched
	}
	s.state = ShellBursting
	s.comet = nil

	e := s.engine
	speed := s.cfg.SpreadSize / e.cfg.Shell.SpeedDivisor

	em := &starEmitter{engine: e, shell: &s.cfg, x: x, y: y, speed: speed}
	if s.cfg.Glitter != "" {
		em.glitter, em.hasGlitter = e.cfg.Glitter[s.cfg.Glitter]
		if !em.hasGlitter {
			slog.Debug("unknown glitter style", "glitter", s.cfg.Glitter)
		}
	}
	em.sparkFreq = em.glitter.Freq / float64(e.quality)

	count := float64(s.cfg.StarCount)
	col := s.cfg.Color
	switch col.Mode {
	case ColorSplit:
		if e.rng.Float64() < 0.5 {
			// Two half arcs
			start := e.rng.Float64() * math.Pi
			em.color = col.Primary
			Distribute(e.rng, count, start, math.Pi, em.emit)
			em.color = col.Secondary
			Distribute(e.rng, count, start+math.Pi, math.Pi, em.emit)
		} else {
			// Two overlapping half counts
			em.color = col.Primary
			Distribute(e.rng, count/2, 0, twoPi, em.emit)
			em.color = col.Secondary
			Distribute(e.rng, count/2, 0, twoPi, em.emit)
		}
	case ColorRandom:
		em.random = true
		Distribute(e.rng, count, 0, twoPi, em.emit)
	default:
		em.color = col.Primary
		Distribute(e.rng, count, 0, twoPi, em.emit)
	}
	spawned := em.spawned

	e.addFlash(x, y, s.cfg.SpreadSize/e.cfg.Shell.FlashDivisor)

	cue := CueBurst
	if s.cfg.Size < e.cfg.Shell.SmallBurstSize {
		cue = CueBurstSmall
	}
	e.sounds.PlaySound(cue, 1)

	e.counters.Bursts++
	e.counters.StarsSpawned += spawned
	s.state = ShellDone

	slog.Debug("shell burst", "x", x, "y", y, "stars", spawned, "target", s.cfg.StarCount)
	return nil
}

// starEmitter spawns burst stars for Distribute. The colour is switched
// between calls for split shells.
type starEmitter struct {
	engine *Engine
	shell  *ShellConfig
	x, y   float64
	speed  float64

	color  palette.Color
	random bool // one random colour per star

	glitter    config.GlitterConfig
	hasGlitter bool
	sparkFreq  float64

	spawned int
}

func (em *starEmitter) emit(angle, ringSize float64) {
	e := em.engine
	color := em.color
	if em.random {
		color = palette.Random(e.rng)
	}
	life := em.shell.StarLife + e.rng.Float64()*em.shell.StarLife*em.shell.StarLifeVariation
	p := e.stars.Add(em.x, em.y, color, angle, ringSize*em.speed, life)
	em.spawned++
	if !em.hasGlitter {
		return
	}
	p.SparkFreq = em.sparkFreq
	p.SparkSpeed = em.glitter.Speed
	p.SparkLife = em.glitter.Life
	p.SparkLifeVariation = em.glitter.LifeVariation
	p.SparkColor = em.shell.GlitterColor
	p.SparkTimer = e.rng.Float64() * em.sparkFreq
	if em.glitter.Crackle != "" {
		p.Death = DeathEvent{Kind: DeathCrackle, Cue: em.glitter.Crackle, Chance: e.cfg.Shell.CrackleChance}
	}
}

// nonNegative maps NaN and negative values to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
