package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Simulation.Gravity != 0.9 {
		t.Errorf("expected gravity 0.9, got %f", cfg.Simulation.Gravity)
	}
	if cfg.Shell.MinStarCount != 6 {
		t.Errorf("expected min star count 6, got %d", cfg.Shell.MinStarCount)
	}
	if _, ok := cfg.Glitter["light"]; !ok {
		t.Error("expected light glitter in defaults")
	}
	if len(cfg.Audio.Sources) != 5 {
		t.Errorf("expected 5 sound sources, got %d", len(cfg.Audio.Sources))
	}
	if cfg.Derived.StageW != 1280 || cfg.Derived.StageH != 720 {
		t.Errorf("expected derived stage 1280x720, got %fx%f", cfg.Derived.StageW, cfg.Derived.StageH)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	data := []byte("simulation:\n  quality: 3\n  long_exposure: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading user config: %v", err)
	}

	if cfg.Derived.Quality != QualityHigh {
		t.Errorf("expected quality %d, got %d", QualityHigh, cfg.Derived.Quality)
	}
	if !cfg.Simulation.LongExposure {
		t.Error("expected long exposure from user file")
	}
	// Untouched keys keep their defaults
	if cfg.Stars.AirDrag != 0.98 {
		t.Errorf("expected default star drag 0.98, got %f", cfg.Stars.AirDrag)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestClampStage(t *testing.T) {
	testCases := []struct {
		w, h         float64
		wantW, wantH float64
	}{
		{1000, 800, 1000, 800},
		{0, -5, 1, 1},
		{10000, 9000, MaxStageWidth, MaxStageHeight},
	}

	for _, tc := range testCases {
		w, h := ClampStage(tc.w, tc.h)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("ClampStage(%v, %v): expected (%v, %v), got (%v, %v)", tc.w, tc.h, tc.wantW, tc.wantH, w, h)
		}
	}
}

func TestClampQuality(t *testing.T) {
	if q := ClampQuality(0); q != QualityLow {
		t.Errorf("expected %d, got %d", QualityLow, q)
	}
	if q := ClampQuality(7); q != QualityHigh {
		t.Errorf("expected %d, got %d", QualityHigh, q)
	}
	if q := ClampQuality(QualityNormal); q != QualityNormal {
		t.Errorf("expected %d, got %d", QualityNormal, q)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Show.Year = "2030"

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if loaded.Show.Year != "2030" {
		t.Errorf("expected year 2030 after reload, got %q", loaded.Show.Year)
	}
}
