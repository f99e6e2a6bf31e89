// Package game wires the simulation, show timeline, renderer, audio and
// telemetry into one frame loop.
package game

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/audio"
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/glyph"
	"github.com/pthm-cable/fireworks/renderer"
	"github.com/pthm-cable/fireworks/show"
	"github.com/pthm-cable/fireworks/sim"
	"github.com/pthm-cable/fireworks/stage"
	"github.com/pthm-cable/fireworks/telemetry"
	"github.com/pthm-cable/fireworks/ui"
)

// maxFrameMs caps one frame's delta so a stalled window does not fire a
// second's worth of physics at once.
const maxFrameMs = 1000.0 / 15

// particleBudget is the live particle count drawn as a full HUD load bar.
const particleBudget = 20000

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	Countdown      bool // start the countdown instead of ambient shells
	Mute           bool
}

// Game holds the complete show state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	engine   *sim.Engine
	stage    *stage.Stage
	timeline *show.Timeline

	sounds       sim.SoundPlayer
	soundManager *audio.SoundManager

	// Rendering (nil when headless)
	trails     *renderer.RaylibLayer
	main       *renderer.RaylibLayer
	compositor *renderer.Compositor
	background *renderer.BackgroundRenderer
	fonts      *renderer.FontRasterizer
	controls   *ui.ControlsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// State
	frame    int32
	paused   bool
	headless bool
	showPerf bool
}

// NewGame creates a game. In graphical mode the raylib window must already
// be open.
func NewGame(cfg *config.Config, opts Options) *Game {
	g := &Game{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		stage:    stage.FromConfig(cfg),
		headless: opts.Headless,
		logStats: opts.LogStats,
	}

	g.initAudio(opts)

	var raster glyph.Rasterizer
	if g.headless {
		raster = glyph.NewBitmapRasterizer()
	} else {
		g.fonts = renderer.NewFontRasterizer(cfg.WordBurst.Fonts)
		raster = g.fonts
	}

	g.engine = sim.NewEngine(cfg,
		sim.WithRand(g.rng),
		sim.WithSounds(g.sounds),
		sim.WithRasterizer(raster),
	)
	g.engine.Resize(float64(g.stage.Width), float64(g.stage.Height))
	g.stage.OnResize(func(w, h float32) {
		g.engine.Resize(float64(w), float64(h))
		slog.Info("stage resized", "width", w, "height", h)
	})

	g.timeline = show.NewTimeline(g.engine, cfg.Show, g.sounds)
	if opts.Countdown {
		g.timeline.StartCountdown()
	} else {
		g.timeline.StartAmbient()
	}

	g.initTelemetry(opts)

	if !g.headless {
		g.initRendering()
	}

	return g
}

func (g *Game) initAudio(opts Options) {
	g.sounds = audio.Silent{}
	if g.headless || opts.Mute || !g.cfg.Audio.Enabled {
		return
	}

	sm := audio.NewSoundManager(g.cfg.Audio, rand.New(rand.NewSource(opts.Seed+1)))
	if err := sm.Initialize(); err != nil {
		slog.Warn("audio unavailable, continuing muted", "error", err)
		return
	}
	if err := sm.Load(); err != nil {
		slog.Warn("some sounds failed to load", "error", err)
	}
	g.soundManager = sm
	g.sounds = sm
}

func (g *Game) initTelemetry(opts Options) {
	window := g.cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(window)
	g.perfCollector = telemetry.NewPerfCollector(g.cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		return
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}
}

func (g *Game) initRendering() {
	pw, ph := g.stage.PixelSize()
	g.trails = renderer.NewRaylibLayer(pw, ph, g.stage.DPR, rl.Black)
	g.main = renderer.NewRaylibLayer(pw, ph, g.stage.DPR, rl.Blank)
	g.compositor = renderer.NewCompositor(g.cfg, g.trails, g.main)
	g.background = renderer.NewBackgroundRenderer(g.cfg.Screen.SkyTop, g.cfg.Screen.SkyBottom)
	g.controls = ui.NewControlsPanel(10, 10, 240)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 230)

	g.stage.OnResize(func(w, h float32) {
		pw, ph := g.stage.PixelSize()
		g.trails.Resize(pw, ph, g.stage.DPR)
		g.main.Resize(pw, ph, g.stage.DPR)
	})
}

// Update advances one graphical frame using the real frame time.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}
	g.tick(float64(rl.GetFrameTime()) * 1000)
}

// UpdateHeadless advances one nominal frame without touching raylib.
func (g *Game) UpdateHeadless() {
	g.tick(g.cfg.Simulation.FrameMS)
}

func (g *Game) tick(dtMs float64) {
	if dtMs > maxFrameMs {
		dtMs = maxFrameMs
	}
	if !(dtMs > 0) {
		return
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseShow)
	g.timeline.Update(dtMs)

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.engine.Advance(dtMs)
	g.collector.Advance(dtMs * g.engine.SimSpeed())
	g.frame++
	g.perfCollector.RecordLoad(g.engine.ActiveCount(), g.engine.PendingFlashes())

	g.perfCollector.StartPhase(telemetry.PhaseRender)
	if g.compositor != nil {
		g.compositor.Render(g.engine)
	} else {
		// Flashes only live for one render pass.
		g.engine.DrainFlashes(nil)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()

	g.logPerf()
}

// LaunchAt launches a shell toward a stage point: the horizontal position
// comes from x and the burst height from y.
func (g *Game) LaunchAt(x, y float32) *sim.Shell {
	pos, height := g.stage.Fraction(x, y)
	s := g.engine.NewShell(g.engine.CrysanthemumShell(g.randomShellSize()))
	if err := s.Launch(pos, height); err != nil {
		slog.Warn("launch failed", "error", err)
		return nil
	}
	return s
}

// LaunchRandom launches a shell from a random position to full height.
func (g *Game) LaunchRandom() *sim.Shell {
	return g.engine.LaunchRandom(g.randomShellSize())
}

func (g *Game) randomShellSize() float64 {
	sizes := g.cfg.Show.ShellSizes
	if len(sizes) == 0 {
		return 2
	}
	return float64(sizes[g.rng.Intn(len(sizes))])
}

// StartCountdown restarts the countdown show.
func (g *Game) StartCountdown() {
	g.timeline.StartCountdown()
}

// Frame returns the number of simulated frames.
func (g *Game) Frame() int32 {
	return g.frame
}

// Engine returns the simulation engine.
func (g *Game) Engine() *sim.Engine {
	return g.engine
}

// Timeline returns the show timeline.
func (g *Game) Timeline() *show.Timeline {
	return g.timeline
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Unload releases GPU, audio and file resources.
func (g *Game) Unload() {
	g.logSummary()

	g.timeline.Reset()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if g.soundManager != nil {
		if err := g.soundManager.Close(); err != nil {
			slog.Error("failed to close audio", "error", err)
		}
	}
	if g.trails != nil {
		g.trails.Unload()
		g.main.Unload()
	}
	if g.fonts != nil {
		g.fonts.Unload()
	}
}
