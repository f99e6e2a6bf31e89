// Package show drives the scripted countdown on top of the simulation engine.
// Cues are ECS entities; Update fires the ones whose time has come.
package show

import (
	"log/slog"
	"math/rand"
	"sort"
	"strconv"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

type silent struct{}

func (silent) PlaySound(string, float64) {}

// Timeline schedules word bursts and shell launches against a show clock in
// milliseconds. It must be driven from the same goroutine as the engine.
type Timeline struct {
	world *ecs.World

	cueMapper *ecs.Map4[
		components.Schedule,
		components.Cue,
		components.Anchor,
		components.Repeat,
	]
	cueFilter *ecs.Filter4[
		components.Schedule,
		components.Cue,
		components.Anchor,
		components.Repeat,
	]

	engine *sim.Engine
	sounds sim.SoundPlayer
	cfg    config.ShowConfig
	rng    *rand.Rand

	clock float64
	fired int
}

// NewTimeline creates an empty timeline. A nil sounds plays nothing.
func NewTimeline(engine *sim.Engine, cfg config.ShowConfig, sounds sim.SoundPlayer) *Timeline {
	if sounds == nil {
		sounds = silent{}
	}
	world := ecs.NewWorld()
	return &Timeline{
		world: world,
		cueMapper: ecs.NewMap4[
			components.Schedule,
			components.Cue,
			components.Anchor,
			components.Repeat,
		](world),
		cueFilter: ecs.NewFilter4[
			components.Schedule,
			components.Cue,
			components.Anchor,
			components.Repeat,
		](world),
		engine: engine,
		sounds: sounds,
		cfg:    cfg,
		rng:    engine.Rand(),
	}
}

// Clock returns the show time in milliseconds.
func (t *Timeline) Clock() float64 {
	return t.clock
}

// Fired returns how many cues have fired since the timeline was created.
func (t *Timeline) Fired() int {
	return t.fired
}

// Pending returns the number of scheduled cues.
func (t *Timeline) Pending() int {
	n := 0
	query := t.cueFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Done reports whether nothing is left to fire.
func (t *Timeline) Done() bool {
	return t.Pending() == 0
}

// schedule adds one cue, delay ms from now.
func (t *Timeline) schedule(delay float64, cue components.Cue, anchor components.Anchor, repeat components.Repeat) ecs.Entity {
	sch := components.Schedule{At: t.clock + delay}
	return t.cueMapper.NewEntity(&sch, &cue, &anchor, &repeat)
}

func (t *Timeline) words(delay float64, text string, color palette.Color, scale, offsetY float64) {
	t.schedule(delay,
		components.Cue{Kind: components.CueWords, Text: text, Color: color, Scale: scale},
		components.Anchor{Y: offsetY},
		components.Repeat{})
}

// StartCountdown replaces whatever is scheduled with the full show: a count
// from CountdownFrom to 0, the headline with a finale barrage, the year
// reveal and its echo, then ambient shells forever.
func (t *Timeline) StartCountdown() {
	t.Reset()
	c := t.cfg

	for i := 0; i <= c.CountdownFrom; i++ {
		at := float64(i) * c.CountInterval
		t.words(at, strconv.Itoa(c.CountdownFrom-i), palette.White, c.CountScale, 0)
		t.schedule(at,
			components.Cue{Kind: components.CueShell, ShellSize: t.shellSize()},
			components.Anchor{X: -1, Y: 1},
			components.Repeat{})
	}

	headline := float64(c.CountdownFrom)*c.CountInterval + c.HeadlineDelay
	t.words(headline, c.Headline, palette.Gold, c.HeadlineScale, c.HeadlineOffset)
	t.words(headline, c.Subline, palette.Gold, c.HeadlineScale, c.SublineOffset)
	if c.FinaleShells > 0 {
		t.schedule(headline+c.FinaleInterval,
			components.Cue{Kind: components.CueFinale},
			components.Anchor{X: -1, Y: 1},
			components.Repeat{Interval: c.FinaleInterval, Remaining: c.FinaleShells - 1})
	}

	reveal := headline + c.RevealDelay
	t.words(reveal, c.Year, palette.Red, c.YearScale, 0)
	t.words(reveal+c.RevealEchoDelay, c.Year, palette.Gold, c.YearScale, 0)

	t.scheduleAmbient(reveal + c.AmbientInterval)

	slog.Info("countdown scheduled", "from", c.CountdownFrom, "cues", t.Pending(), "reveal_ms", reveal)
}

// StartAmbient replaces the schedule with ambient shells only.
func (t *Timeline) StartAmbient() {
	t.Reset()
	t.scheduleAmbient(t.cfg.AmbientInterval)
}

func (t *Timeline) scheduleAmbient(delay float64) {
	if t.cfg.AmbientInterval <= 0 {
		return
	}
	t.schedule(delay,
		components.Cue{Kind: components.CueAmbient},
		components.Anchor{X: -1, Y: 1},
		components.Repeat{Interval: t.cfg.AmbientInterval, Remaining: -1, Chance: t.cfg.AmbientChance})
}

// Reset removes every scheduled cue. The clock keeps running.
func (t *Timeline) Reset() {
	var toRemove []ecs.Entity
	query := t.cueFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		t.cueMapper.Remove(e)
	}
}

// Update advances the show clock by dtMs and fires due cues in time order.
// A cue that falls due more than once within dtMs fires once per Update.
func (t *Timeline) Update(dtMs float64) int {
	if !(dtMs > 0) {
		return 0
	}
	t.clock += dtMs

	type dueCue struct {
		entity ecs.Entity
		at     float64
		cue    components.Cue
		anchor components.Anchor
		chance float64
	}
	var due []dueCue

	// Firing may schedule new cues, so collect first.
	query := t.cueFilter.Query()
	for query.Next() {
		sch, cue, anchor, rep := query.Get()
		if sch.At <= t.clock {
			due = append(due, dueCue{query.Entity(), sch.At, *cue, *anchor, rep.Chance})
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })

	for _, d := range due {
		t.fire(d.cue, d.anchor, d.chance, d.at)
		t.rearm(d.entity)
	}
	return len(due)
}

// rearm moves a repeating cue to its next slot or removes a spent one.
func (t *Timeline) rearm(e ecs.Entity) {
	if !t.world.Alive(e) {
		return
	}
	sch, _, _, rep := t.cueMapper.Get(e)
	sch.Fired++
	if rep.Interval <= 0 || rep.Remaining == 0 {
		t.cueMapper.Remove(e)
		return
	}
	if rep.Remaining > 0 {
		rep.Remaining--
	}
	sch.At += rep.Interval
}

func (t *Timeline) fire(cue components.Cue, anchor components.Anchor, chance, at float64) {
	t.fired++
	switch cue.Kind {
	case components.CueWords:
		w, h := t.engine.StageSize()
		policy := sim.FixedColor(cue.Color)
		if cue.RandomColor {
			policy = sim.RandomColors()
		}
		n := t.engine.WordBurstScaled(cue.Text, w/2+anchor.X, h/2+anchor.Y, cue.Scale, policy)
		t.sounds.PlaySound(sim.CueBurst, 1)
		t.sounds.PlaySound(sim.CueCrackle, 1)
		slog.Info("show cue", "kind", cue.Kind.String(), "text", cue.Text, "at_ms", at, "sparks", n)

	case components.CueShell:
		t.launch(cue.ShellSize, anchor)
		slog.Info("show cue", "kind", cue.Kind.String(), "size", cue.ShellSize, "at_ms", at)

	case components.CueFinale:
		size := t.shellSize()
		t.launch(size, anchor)
		slog.Debug("show cue", "kind", cue.Kind.String(), "size", size, "at_ms", at)

	case components.CueAmbient:
		if t.rng.Float64() < chance {
			t.launch(t.shellSize(), anchor)
		}
	}
}

func (t *Timeline) launch(size float64, anchor components.Anchor) {
	pos := anchor.X
	if pos < 0 {
		pos = t.rng.Float64()*0.8 + 0.1
	}
	height := anchor.Y
	if height <= 0 {
		height = 1
	}
	s := t.engine.NewShell(t.engine.CrysanthemumShell(size))
	if err := s.Launch(pos, height); err != nil {
		slog.Warn("show launch failed", "error", err)
	}
}

func (t *Timeline) shellSize() float64 {
	sizes := t.cfg.ShellSizes
	if len(sizes) == 0 {
		return 2
	}
	return float64(sizes[t.rng.Intn(len(sizes))])
}
