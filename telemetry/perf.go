package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed part of a frame.
type Phase uint8

const (
	PhaseShow Phase = iota
	PhaseStep
	PhaseRender
	PhaseTelemetry
	phaseCount
)

var phaseNames = [phaseCount]string{"show", "step", "render", "telemetry"}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every phase in frame order.
func Phases() []Phase {
	return []Phase{PhaseShow, PhaseStep, PhaseRender, PhaseTelemetry}
}

// frameSample is one timed frame plus the load it carried.
type frameSample struct {
	total     time.Duration
	phases    [phaseCount]time.Duration
	particles int
	flashes   int
}

// PerfCollector times frame phases over a rolling window of frames.
type PerfCollector struct {
	now func() time.Time

	window []frameSample
	next   int
	filled int

	cur        frameSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Wall time between presented frames (graphics mode)
	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:    time.Now,
		window: make([]frameSample, windowSize),
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = frameSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = ph
	p.inPhase = ph < phaseCount
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordLoad notes how many particles and flashes the current frame handles.
func (p *PerfCollector) RecordLoad(particles, flashes int) {
	p.cur.particles = particles
	p.cur.flashes = flashes
}

// EndTick finishes the frame and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordFrame marks a presented frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Indexed by Phase
	PhaseAvg [phaseCount]time.Duration
	PhasePct [phaseCount]float64

	TicksPerSecond float64

	AvgParticles float64
	MaxParticles int
	AvgFlashes   float64
	// Step phase cost per live particle
	StepNsPerParticle float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes statistics over the frames in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [phaseCount]time.Duration
	particles, flashes := 0, 0
	for i, f := range p.window[:p.filled] {
		total += f.total
		if i == 0 || f.total < s.MinTickDuration {
			s.MinTickDuration = f.total
		}
		if f.total > s.MaxTickDuration {
			s.MaxTickDuration = f.total
		}
		for ph, d := range f.phases {
			phaseSum[ph] += d
		}
		particles += f.particles
		flashes += f.flashes
		if f.particles > s.MaxParticles {
			s.MaxParticles = f.particles
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	s.AvgParticles = float64(particles) / float64(p.filled)
	s.AvgFlashes = float64(flashes) / float64(p.filled)
	if s.AvgParticles > 0 {
		s.StepNsPerParticle = float64(s.PhaseAvg[PhaseStep].Nanoseconds()) / s.AvgParticles
	}
	return s
}

// LogStats logs the stats at Info.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("avg_particles", s.AvgParticles),
		slog.Float64("step_ns_per_particle", s.StepNsPerParticle),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd         int32   `csv:"window_end"`
	AvgTickUS         int64   `csv:"avg_tick_us"`
	MinTickUS         int64   `csv:"min_tick_us"`
	MaxTickUS         int64   `csv:"max_tick_us"`
	FPS               float64 `csv:"fps"`
	AvgParticles      float64 `csv:"avg_particles"`
	MaxParticles      int     `csv:"max_particles"`
	AvgFlashes        float64 `csv:"avg_flashes"`
	StepNsPerParticle float64 `csv:"step_ns_per_particle"`
	ShowPct           float64 `csv:"show_pct"`
	StepPct           float64 `csv:"step_pct"`
	RenderPct         float64 `csv:"render_pct"`
	TelemetryPct      float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at frame windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		AvgTickUS:         s.AvgTickDuration.Microseconds(),
		MinTickUS:         s.MinTickDuration.Microseconds(),
		MaxTickUS:         s.MaxTickDuration.Microseconds(),
		FPS:               s.FPS,
		AvgParticles:      s.AvgParticles,
		MaxParticles:      s.MaxParticles,
		AvgFlashes:        s.AvgFlashes,
		StepNsPerParticle: s.StepNsPerParticle,
		ShowPct:           s.PhasePct[PhaseShow],
		StepPct:           s.PhasePct[PhaseStep],
		RenderPct:         s.PhasePct[PhaseRender],
		TelemetryPct:      s.PhasePct[PhaseTelemetry],
	}
}
