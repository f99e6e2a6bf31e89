package telemetry

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

func newTestEngine() *sim.Engine {
	e := sim.NewEngine(config.Default(), sim.WithRand(rand.New(rand.NewSource(3))))
	e.Resize(1000, 800)
	return e
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1)

	c.Advance(600)
	if c.ShouldFlush() {
		t.Error("flushed before the window elapsed")
	}
	c.Advance(-50)
	c.Advance(400)
	if !c.ShouldFlush() {
		t.Error("expected flush after 1000ms")
	}
	if c.SimTimeSec() != 1 {
		t.Errorf("expected 1s of sim time, got %f", c.SimTimeSec())
	}
}

func TestCollectorFlushCountsDeltas(t *testing.T) {
	e := newTestEngine()
	c := NewCollector(1)

	e.LaunchRandom(2)
	c.Advance(1000)
	first := c.Flush(60, e)
	if first.Launches != 1 {
		t.Errorf("expected 1 launch, got %d", first.Launches)
	}
	if first.Stars != 1 {
		t.Errorf("expected the comet as the only star, got %d", first.Stars)
	}
	if first.WindowEndFrame != 60 || first.WindowStartFrame != 0 {
		t.Errorf("unexpected window bounds %d..%d", first.WindowStartFrame, first.WindowEndFrame)
	}

	e.LaunchRandom(2)
	e.LaunchRandom(3)
	c.Advance(1000)
	second := c.Flush(120, e)
	if second.Launches != 2 {
		t.Errorf("expected 2 launches in the second window, got %d", second.Launches)
	}
	if second.WindowStartFrame != 60 {
		t.Errorf("expected window to start at 60, got %d", second.WindowStartFrame)
	}
	if c.ShouldFlush() {
		t.Error("flush must start a new window")
	}
}

func TestCollectorSamples(t *testing.T) {
	e := newTestEngine()
	c := NewCollector(1)

	e.Stars().Add(10, 10, palette.Red, 0, 3, 400)
	e.Stars().Add(20, 10, palette.Red, 0, 5, 800)
	e.Stars().Add(30, 10, palette.Invisible, 0, 4, 600)
	e.Sparks().Add(40, 10, palette.Gold, 0, 2, 100)

	s := c.Flush(1, e)
	if s.Stars != 3 || s.Sparks != 1 {
		t.Errorf("expected 3 stars and 1 spark, got %d and %d", s.Stars, s.Sparks)
	}
	if s.StarLifeMean != 600 || s.StarLifeP50 != 600 {
		t.Errorf("expected life mean and median 600, got %f and %f", s.StarLifeMean, s.StarLifeP50)
	}
	if s.StarSpeedMean != 4 {
		t.Errorf("expected mean star speed 4, got %f", s.StarSpeedMean)
	}
	if s.SparkSpeedMean != 2 {
		t.Errorf("expected spark speed 2, got %f", s.SparkSpeedMean)
	}
	if s.LitColors != 2 {
		t.Errorf("expected red and gold lit, got %d", s.LitColors)
	}
	if s.Quality != e.Quality() {
		t.Errorf("expected quality %d, got %d", e.Quality(), s.Quality)
	}
}
