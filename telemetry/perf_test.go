package telemetry

import (
	"math"
	"testing"
	"time"
)

// stepClock is a manual clock for deterministic timings.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	return c.t
}

func (c *stepClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClockedCollector(window int) (*PerfCollector, *stepClock) {
	clock := &stepClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.Now
	return pc, clock
}

func TestPerfCollector_PhaseTiming(t *testing.T) {
	pc, clock := newClockedCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseShow)
		clock.advance(10 * time.Microsecond)
		pc.StartPhase(PhaseStep)
		clock.advance(90 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 100*time.Microsecond {
		t.Errorf("expected 100us average tick, got %v", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseShow] != 10*time.Microsecond {
		t.Errorf("expected 10us show phase, got %v", stats.PhaseAvg[PhaseShow])
	}
	if math.Abs(stats.PhasePct[PhaseShow]-10) > 1e-9 || math.Abs(stats.PhasePct[PhaseStep]-90) > 1e-9 {
		t.Errorf("expected 10%%/90%% split, got %v/%v", stats.PhasePct[PhaseShow], stats.PhasePct[PhaseStep])
	}
	if stats.PhasePct[PhaseRender] != 0 {
		t.Errorf("expected untimed render phase at 0%%, got %v", stats.PhasePct[PhaseRender])
	}
	if math.Abs(stats.TicksPerSecond-10000) > 1e-6 {
		t.Errorf("expected 10000 ticks/s, got %v", stats.TicksPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newClockedCollector(3)

	// Older slow frames fall out of the window.
	us := time.Microsecond
	for _, d := range []time.Duration{5000 * us, 5000 * us, 100 * us, 200 * us, 300 * us} {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		clock.advance(d)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration != 100*us || stats.MaxTickDuration != 300*us {
		t.Errorf("expected window min 100us max 300us, got %v %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.AvgTickDuration != 200*us {
		t.Errorf("expected 200us average, got %v", stats.AvgTickDuration)
	}
}

func TestPerfCollector_Load(t *testing.T) {
	pc, clock := newClockedCollector(10)

	for _, n := range []int{1000, 3000} {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		clock.advance(time.Duration(n) * time.Microsecond)
		pc.RecordLoad(n, 2)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgParticles != 2000 || stats.MaxParticles != 3000 {
		t.Errorf("expected avg 2000 max 3000, got %v %d", stats.AvgParticles, stats.MaxParticles)
	}
	if stats.AvgFlashes != 2 {
		t.Errorf("expected 2 flashes, got %v", stats.AvgFlashes)
	}
	// 2000us average step over 2000 particles
	if math.Abs(stats.StepNsPerParticle-1000) > 1e-9 {
		t.Errorf("expected 1000ns per particle, got %v", stats.StepNsPerParticle)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 || stats.StepNsPerParticle != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newClockedCollector(10)

	pc.RecordFrame()
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("expected 20ms frame, got %v", stats.FrameDuration)
	}
	if math.Abs(stats.FPS-50) > 1e-9 {
		t.Errorf("expected 50 FPS, got %v", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseShow, "show"},
		{PhaseStep, "step"},
		{PhaseRender, "render"},
		{PhaseTelemetry, "telemetry"},
		{phaseCount, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		AvgParticles:    1500,
		MaxParticles:    1800,
		FPS:             60,
	}
	stats.PhasePct[PhaseStep] = 60
	stats.PhasePct[PhaseRender] = 30
	stats.PhasePct[PhaseShow] = 10

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 {
		t.Errorf("expected window end 120, got %d", row.WindowEnd)
	}
	if row.AvgTickUS != 2000 {
		t.Errorf("expected 2000us, got %d", row.AvgTickUS)
	}
	if row.AvgParticles != 1500 || row.MaxParticles != 1800 {
		t.Errorf("expected particle load 1500/1800, got %v/%d", row.AvgParticles, row.MaxParticles)
	}
	if row.StepPct != 60 || row.RenderPct != 30 || row.ShowPct != 10 || row.TelemetryPct != 0 {
		t.Errorf("unexpected phase split %+v", row)
	}
}
