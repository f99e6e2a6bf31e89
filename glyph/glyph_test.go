package glyph

import (
	"image"
	"image/color"
	"testing"
)

func TestBitmapRasterizerDigit(t *testing.T) {
	r := NewBitmapRasterizer()

	cloud := r.Rasterize("5", 3, "Arial", 100)
	if cloud == nil {
		t.Fatal("expected points for a digit")
	}
	if len(cloud.Points) < 20 {
		t.Errorf("expected a dense lattice, got %d points", len(cloud.Points))
	}
	if cloud.Height < 99 || cloud.Height > 101 {
		t.Errorf("expected height ~100, got %f", cloud.Height)
	}
	for _, p := range cloud.Points {
		if p.X < 0 || p.X >= cloud.Width || p.Y < 0 || p.Y >= cloud.Height {
			t.Fatalf("point %+v outside %fx%f", p, cloud.Width, cloud.Height)
		}
	}
}

func TestBitmapRasterizerGapDensity(t *testing.T) {
	r := NewBitmapRasterizer()

	dense := r.Rasterize("HAPPY", 2, "", 60)
	sparse := r.Rasterize("HAPPY", 6, "", 60)
	if dense == nil || sparse == nil {
		t.Fatal("expected point clouds")
	}
	if len(dense.Points) <= len(sparse.Points) {
		t.Errorf("expected smaller gap to yield more points: %d vs %d", len(dense.Points), len(sparse.Points))
	}
}

func TestBitmapRasterizerEmpty(t *testing.T) {
	r := NewBitmapRasterizer()

	testCases := []struct {
		name string
		text string
		gap  int
		size float64
	}{
		{"empty text", "", 3, 100},
		{"blank text", "   ", 3, 100},
		{"zero gap", "5", 0, 100},
		{"zero size", "5", 3, 0},
	}

	for _, tc := range testCases {
		if cloud := r.Rasterize(tc.text, tc.gap, "", tc.size); cloud != nil {
			t.Errorf("%s: expected nil, got %d points", tc.name, len(cloud.Points))
		}
	}
}

func TestSampleScalesLattice(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 4, 4))
	img.SetAlpha(0, 0, color.Alpha{A: 255})

	// 4px native scaled to 8px: pixel (0,0) covers [0,2) in output space
	cloud := Sample(img, 4, 1, 8)
	if cloud == nil {
		t.Fatal("expected points")
	}
	if cloud.Width != 8 || cloud.Height != 8 {
		t.Errorf("expected 8x8, got %fx%f", cloud.Width, cloud.Height)
	}
	if len(cloud.Points) != 4 {
		t.Errorf("expected 4 lattice points on the inked pixel, got %d", len(cloud.Points))
	}
}
