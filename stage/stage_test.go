package stage

import (
	"math"
	"testing"

	"github.com/pthm-cable/fireworks/config"
)

func TestNew(t *testing.T) {
	s := New(1280, 720, 2)

	if s.Width != 1280 || s.Height != 720 {
		t.Errorf("expected stage 1280x720, got %fx%f", s.Width, s.Height)
	}
	w, h := s.PixelSize()
	if w != 2560 || h != 1440 {
		t.Errorf("expected pixels 2560x1440, got %dx%d", w, h)
	}
}

func TestNewClamps(t *testing.T) {
	testCases := []struct {
		name          string
		w, h, dpr     float32
		expW, expH    float32
		expectedRatio float32
	}{
		{"zero size", 0, 0, 1, 1, 1, 1},
		{"negative", -10, 50, 1, 1, 50, 1},
		{"oversize", 10000, 9000, 1, config.MaxStageWidth, config.MaxStageHeight, 1},
		{"low ratio", 100, 100, 0.5, 100, 100, 1},
		{"NaN ratio", 100, 100, float32(math.NaN()), 100, 100, 1},
	}

	for _, tc := range testCases {
		s := New(tc.w, tc.h, tc.dpr)
		if s.Width != tc.expW || s.Height != tc.expH || s.DPR != tc.expectedRatio {
			t.Errorf("%s: expected %fx%f@%f, got %fx%f@%f",
				tc.name, tc.expW, tc.expH, tc.expectedRatio, s.Width, s.Height, s.DPR)
		}
	}
}

func TestScreenToStageRoundtrip(t *testing.T) {
	s := New(1280, 720, 1.5)

	testCases := []struct{ x, y float32 }{
		{640, 360}, // center
		{0, 0},     // top-left
		{1200, 600},
	}

	for _, tc := range testCases {
		sx, sy := s.ToScreen(tc.x, tc.y)
		x, y := s.ToStage(sx, sy)
		if math.Abs(float64(x-tc.x)) > 0.01 || math.Abs(float64(y-tc.y)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.x, tc.y, sx, sy, x, y)
		}
	}
}

func TestResizeNotifies(t *testing.T) {
	s := New(800, 600, 2)

	var gotW, gotH float32
	calls := 0
	s.OnResize(func(w, h float32) {
		calls++
		gotW, gotH = w, h
	})

	// Window pixels are divided by the ratio
	if !s.Resize(1000, 400) {
		t.Fatal("expected a change")
	}
	if gotW != 500 || gotH != 200 || calls != 1 {
		t.Errorf("expected one notification with 500x200, got %d with %fx%f", calls, gotW, gotH)
	}

	if s.Resize(1000, 400) {
		t.Error("same size should not report a change")
	}
	if calls != 1 {
		t.Errorf("expected no extra notification, got %d", calls)
	}

	s.Resize(0, -5)
	if s.Width != 1 || s.Height != 1 {
		t.Errorf("expected clamped 1x1, got %fx%f", s.Width, s.Height)
	}
}

func TestFraction(t *testing.T) {
	s := New(1000, 800, 1)

	pos, h := s.Fraction(250, 200)
	if math.Abs(pos-0.25) > 1e-6 || math.Abs(h-0.75) > 1e-6 {
		t.Errorf("expected (0.25, 0.75), got (%f, %f)", pos, h)
	}

	pos, h = s.Fraction(-50, 900)
	if pos != 0 || h != 0 {
		t.Errorf("expected clamped (0, 0), got (%f, %f)", pos, h)
	}
}

func TestIsVisible(t *testing.T) {
	s := New(1280, 720, 1)

	if !s.IsVisible(640, 360, 1) {
		t.Error("center should be visible")
	}
	if s.IsVisible(-100, 360, 10) {
		t.Error("far left point should not be visible")
	}
	if !s.IsVisible(-50, 360, 100) {
		t.Error("edge point with large radius should be visible")
	}
}
