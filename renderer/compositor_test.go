package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/sim"
)

type strokeCall struct {
	color palette.Color
	width float32
	blend Blend
	segs  []Segment
}

type recordingLayer struct {
	begun, ended int
	fades        []float32
	clears       int
	strokes      []strokeCall
	flashes      [][3]float32
}

func (l *recordingLayer) Begin()             { l.begun++ }
func (l *recordingLayer) End()               { l.ended++ }
func (l *recordingLayer) Fade(alpha float32) { l.fades = append(l.fades, alpha) }
func (l *recordingLayer) Clear()             { l.clears++ }

func (l *recordingLayer) Strokes(color palette.Color, width float32, blend Blend, segs []Segment) {
	l.strokes = append(l.strokes, strokeCall{color, width, blend, append([]Segment(nil), segs...)})
}

func (l *recordingLayer) Flash(x, y, radius float32) {
	l.flashes = append(l.flashes, [3]float32{x, y, radius})
}

func (l *recordingLayer) segments() int {
	n := 0
	for _, s := range l.strokes {
		n += len(s.segs)
	}
	return n
}

func newTestEngine() *sim.Engine {
	e := sim.NewEngine(config.Default(), sim.WithRand(rand.New(rand.NewSource(1))))
	e.Resize(1000, 800)
	return e
}

func TestRenderLayersAndBlend(t *testing.T) {
	e := newTestEngine()
	trails, main := &recordingLayer{}, &recordingLayer{}
	c := NewCompositor(e.Config(), trails, main)

	e.Stars().Add(10, 10, palette.Red, 0, 1, 1000)
	e.Stars().Add(20, 10, palette.Red, 0, 1, 1000)
	e.Sparks().Add(30, 10, palette.Gold, 0, 1, 1000)
	e.Step(16, 1)

	c.Render(e)

	if main.clears != 1 || len(main.fades) != 0 {
		t.Errorf("expected main cleared and not faded, got clears=%d fades=%d", main.clears, len(main.fades))
	}
	if trails.clears != 0 || len(trails.fades) != 1 {
		t.Errorf("expected trails faded and not cleared, got clears=%d fades=%d", trails.clears, len(trails.fades))
	}
	if trails.begun != 1 || trails.ended != 1 || main.begun != 1 || main.ended != 1 {
		t.Error("expected one Begin/End pair per layer")
	}

	if trails.segments() != 3 {
		t.Errorf("expected 3 trail segments, got %d", trails.segments())
	}
	if main.segments() != 2 {
		t.Errorf("expected 2 star heads, got %d", main.segments())
	}
	for _, s := range append(trails.strokes, main.strokes...) {
		if s.blend != BlendLighten {
			t.Errorf("expected lighten blend, got %d", s.blend)
		}
	}

	cfg := e.Config()
	for _, s := range trails.strokes {
		switch s.color {
		case palette.Red:
			if s.width != float32(cfg.Stars.DrawWidth) {
				t.Errorf("expected star width %f, got %f", cfg.Stars.DrawWidth, s.width)
			}
		case palette.Gold:
			if s.width != float32(cfg.Sparks.DrawWidth) {
				t.Errorf("expected spark width %f, got %f", cfg.Sparks.DrawWidth, s.width)
			}
		default:
			t.Errorf("unexpected stroke colour %s", s.color)
		}
	}

	stats := c.Stats()
	if stats.TrailSegments != 3 || stats.HeadSegments != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestRenderTrailSegmentsFollowMotion(t *testing.T) {
	e := newTestEngine()
	trails, main := &recordingLayer{}, &recordingLayer{}
	c := NewCompositor(e.Config(), trails, main)

	p := e.Stars().Add(100, 100, palette.Blue, math.Pi/2, 5, 1000)
	e.Step(16, 1)
	c.Render(e)

	seg := trails.strokes[0].segs[0]
	if seg.X1 != float32(p.X) || seg.X2 != 100 || seg.Y2 != 100 {
		t.Errorf("expected trail from (%f,%f) to (100,100), got %+v", p.X, p.Y, seg)
	}

	head := main.strokes[0].segs[0]
	if main.strokes[0].color != palette.White {
		t.Errorf("expected white heads, got %s", main.strokes[0].color)
	}
	expectedX2 := float32(p.X - p.SpeedX*e.Config().Trails.HeadLength)
	if math.Abs(float64(head.X2-expectedX2)) > 1e-3 {
		t.Errorf("expected head to end at x=%f, got %f", expectedX2, head.X2)
	}
}

func TestRenderSkipsInvisible(t *testing.T) {
	e := newTestEngine()
	trails, main := &recordingLayer{}, &recordingLayer{}
	c := NewCompositor(e.Config(), trails, main)

	e.Stars().Add(10, 10, palette.Invisible, 0, 1, 1000)
	c.Render(e)

	if trails.segments() != 0 || main.segments() != 0 {
		t.Errorf("invisible particles must not be stroked: %d trails, %d heads", trails.segments(), main.segments())
	}
}

func TestRenderDrainsFlashes(t *testing.T) {
	e := newTestEngine()
	trails, main := &recordingLayer{}, &recordingLayer{}
	c := NewCompositor(e.Config(), trails, main)

	s := e.NewShell(e.DefaultShellConfig())
	_ = s.Launch(0.5, 1)
	e.Retire(s.Comet())

	c.Render(e)
	if len(trails.flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(trails.flashes))
	}
	if r := trails.flashes[0][2]; r != float32(s.Config().SpreadSize/4) {
		t.Errorf("expected radius %f, got %f", s.Config().SpreadSize/4, r)
	}
	if len(main.flashes) != 0 {
		t.Error("flashes belong on the trails layer")
	}

	c.Render(e)
	if len(trails.flashes) != 1 {
		t.Errorf("flash drawn twice: %d", len(trails.flashes))
	}
}

func TestFadeAlpha(t *testing.T) {
	tc := config.Default().Trails

	testCases := []struct {
		name     string
		long     bool
		speed    float64
		expected float32
	}{
		{"normal speed", false, 1, 0.175},
		{"double speed", false, 2, 0.35},
		{"long exposure ignores speed", true, 3, 0.0025},
		{"clamped", false, 10, 1},
		{"NaN speed", false, math.NaN(), 0},
	}

	for _, c := range testCases {
		got := FadeAlpha(tc, c.long, c.speed)
		if math.Abs(float64(got-c.expected)) > 1e-6 {
			t.Errorf("%s: expected %f, got %f", c.name, c.expected, got)
		}
	}
}

func TestSparkWidth(t *testing.T) {
	sc := config.Default().Sparks

	if w := SparkWidth(sc, config.QualityHigh); w != 0.75 {
		t.Errorf("expected 0.75 at high quality, got %f", w)
	}
	if w := SparkWidth(sc, config.QualityNormal); w != 1 {
		t.Errorf("expected 1 at normal quality, got %f", w)
	}
}
