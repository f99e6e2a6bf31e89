package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/glyph"
)

// Sound cue keys emitted by the engine.
const (
	CueLift         = "lift"
	CueBurst        = "burst"
	CueBurstSmall   = "burstSmall"
	CueCrackle      = "crackle"
	CueCrackleSmall = "crackleSmall"
)

// SoundPlayer plays fire-and-forget sound cues. Implementations must not
// block and must treat a missing buffer as silence.
type SoundPlayer interface {
	PlaySound(key string, scale float64)
}

type silentPlayer struct{}

func (silentPlayer) PlaySound(string, float64) {}

// BurstFlash is a one-frame radial flash drawn at a burst point.
type BurstFlash struct {
	X, Y   float64
	Radius float64
}

// Counters accumulates engine events between telemetry reads.
type Counters struct {
	Launches      int
	Bursts        int
	StarsSpawned  int
	SparksEmitted int
	WordBursts    int
	WordSparks    int
	Expired       int
}

type deathRecord struct {
	ev   DeathEvent
	x, y float64
}

// Engine is the simulation context. Stage size, quality and speed live here,
// so independent engines can coexist. An Engine is not safe for concurrent use: callers must
// serialise Step and every trigger (launches, word bursts) onto one goroutine.
type Engine struct {
	cfg    *config.Config
	rng    *rand.Rand
	sounds SoundPlayer
	text   glyph.Rasterizer

	stageW, stageH float64
	quality        int
	simSpeed       float64
	longExposure   bool
	lastSpeed      float64 // effective speed of the most recent step

	stars     *Pool
	sparks    *Pool
	flashes   []*BurstFlash
	flashFree []*BurstFlash
	pending   []deathRecord

	counters Counters
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSounds sets the sound cue sink.
func WithSounds(p SoundPlayer) Option {
	return func(e *Engine) {
		if p != nil {
			e.sounds = p
		}
	}
}

// WithRasterizer sets the text rasterizer used by word bursts.
func WithRasterizer(r glyph.Rasterizer) Option {
	return func(e *Engine) { e.text = r }
}

// NewEngine creates an engine sized from cfg's derived stage.
func NewEngine(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:          cfg,
		sounds:       silentPlayer{},
		stageW:       cfg.Derived.StageW,
		stageH:       cfg.Derived.StageH,
		quality:      config.ClampQuality(cfg.Simulation.Quality),
		simSpeed:     cfg.Simulation.SimSpeed,
		longExposure: cfg.Simulation.LongExposure,
		lastSpeed:    1,
		stars:        NewPool(PopStars),
		sparks:       NewPool(PopSparks),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.Resize(e.stageW, e.stageH)
	return e
}

// Resize sets the stage dimensions, clamped to at least 1x1.
func (e *Engine) Resize(w, h float64) {
	e.stageW, e.stageH = config.ClampStage(w, h)
}

// StageSize returns the current stage dimensions.
func (e *Engine) StageSize() (float64, float64) {
	return e.stageW, e.stageH
}

// SetQuality sets the quality tier (clamped to low..high).
func (e *Engine) SetQuality(q int) {
	e.quality = config.ClampQuality(q)
}

// Quality returns the current quality tier.
func (e *Engine) Quality() int {
	return e.quality
}

// SetSimSpeed sets the simulation speed multiplier. Non-positive and NaN
// values are ignored.
func (e *Engine) SetSimSpeed(s float64) {
	if s > 0 && !math.IsInf(s, 0) {
		e.simSpeed = s
	}
}

// SimSpeed returns the simulation speed multiplier.
func (e *Engine) SimSpeed() float64 {
	return e.simSpeed
}

// SetLongExposure toggles the long-exposure trail mode.
func (e *Engine) SetLongExposure(on bool) {
	e.longExposure = on
}

// LongExposure reports whether long exposure is on.
func (e *Engine) LongExposure() bool {
	return e.longExposure
}

// LastSpeed returns the effective speed (sim speed x lag) of the last step.
func (e *Engine) LastSpeed() float64 {
	return e.lastSpeed
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Rand returns the engine's random source.
func (e *Engine) Rand() *rand.Rand {
	return e.rng
}

// Stars returns the star pool.
func (e *Engine) Stars() *Pool {
	return e.stars
}

// Sparks returns the spark pool.
func (e *Engine) Sparks() *Pool {
	return e.sparks
}

// ActiveCount returns the total number of live particles.
func (e *Engine) ActiveCount() int {
	return e.stars.Len() + e.sparks.Len()
}

// addFlash queues a burst flash for the next render pass.
func (e *Engine) addFlash(x, y, radius float64) {
	var f *BurstFlash
	if n := len(e.flashFree); n > 0 {
		f = e.flashFree[n-1]
		e.flashFree = e.flashFree[:n-1]
	} else {
		f = &BurstFlash{}
	}
	*f = BurstFlash{X: x, Y: y, Radius: radius}
	e.flashes = append(e.flashes, f)
}

// PendingFlashes returns the number of flashes waiting to be drawn.
func (e *Engine) PendingFlashes() int {
	return len(e.flashes)
}

// DrainFlashes hands every pending flash to fn and recycles it. Flashes live
// for exactly one render pass.
func (e *Engine) DrainFlashes(fn func(BurstFlash)) {
	for len(e.flashes) > 0 {
		n := len(e.flashes) - 1
		f := e.flashes[n]
		e.flashes[n] = nil
		e.flashes = e.flashes[:n]
		if fn != nil {
			fn(*f)
		}
		e.flashFree = append(e.flashFree, f)
	}
}

// Retire expires an active particle immediately and dispatches its death event.
func (e *Engine) Retire(p *Particle) {
	if p == nil {
		e.stars.reportBadRetire(nil)
		return
	}
	pool := e.stars
	if p.pop == PopSparks {
		pool = e.sparks
	}
	if !p.active {
		pool.reportBadRetire(p)
		return
	}
	x, y := p.X, p.Y
	ev := pool.Retire(p)
	e.counters.Expired++
	e.dispatch(deathRecord{ev: ev, x: x, y: y})
}

// dispatch runs one death event.
func (e *Engine) dispatch(d deathRecord) {
	switch d.ev.Kind {
	case DeathBurst:
		if d.ev.Shell == nil {
			return
		}
		if err := d.ev.Shell.Burst(d.x, d.y); err != nil {
			slog.Debug("burst skipped", "error", err)
		}
	case DeathCrackle:
		if d.ev.Cue != "" && e.rng.Float64() < d.ev.Chance {
			e.sounds.PlaySound(d.ev.Cue, 1)
		}
	}
}

func abandonShell(p *Particle) {
	if p.Death.Kind == DeathBurst && p.Death.Shell != nil {
		p.Death.Shell.abandon()
	}
}

// Counters returns the events accumulated since the last ResetCounters.
func (e *Engine) Counters() Counters {
	return e.counters
}

// ResetCounters zeroes the event counters.
func (e *Engine) ResetCounters() {
	e.counters = Counters{}
}

// Clear removes every particle and pending flash without dispatching events.
// Shells whose comet is dropped end without bursting.
func (e *Engine) Clear() {
	e.stars.Each(abandonShell)
	for _, d := range e.pending {
		if d.ev.Kind == DeathBurst && d.ev.Shell != nil {
			d.ev.Shell.abandon()
		}
	}
	e.stars.Clear()
	e.sparks.Clear()
	e.DrainFlashes(nil)
	e.pending = e.pending[:0]
}
