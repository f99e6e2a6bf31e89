// Package glyph turns text into point clouds for word bursts.
package glyph

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Point is a sample position relative to the cloud's top-left corner.
type Point struct {
	X, Y float64
}

// PointCloud is the result of rasterizing a string.
type PointCloud struct {
	Points []Point
	Width  float64
	Height float64
}

// Rasterizer samples rendered text on a lattice. gap is the lattice step in
// pixels. A nil result means no usable point data.
type Rasterizer interface {
	Rasterize(text string, gap int, family string, sizePx float64) *PointCloud
}

// alphaThreshold is the coverage above which a lattice sample counts as ink.
const alphaThreshold = 128

// BitmapRasterizer renders text with a fixed bitmap face on the CPU and
// scales the lattice to the requested size. The family is ignored. It needs
// no window or GPU, so it serves headless runs and tests.
type BitmapRasterizer struct {
	face font.Face
}

// NewBitmapRasterizer creates a rasterizer using the 7x13 basic face.
func NewBitmapRasterizer() *BitmapRasterizer {
	return &BitmapRasterizer{face: basicfont.Face7x13}
}

// Rasterize implements Rasterizer.
func (r *BitmapRasterizer) Rasterize(text string, gap int, family string, sizePx float64) *PointCloud {
	if strings.TrimSpace(text) == "" || gap < 1 || !(sizePx > 0) {
		return nil
	}

	d := &font.Drawer{Face: r.face}
	advance := d.MeasureString(text).Ceil()
	m := r.face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	if advance <= 0 || height <= 0 {
		return nil
	}

	img := image.NewAlpha(image.Rect(0, 0, advance, height))
	d.Dst = img
	d.Src = image.Opaque
	d.Dot = fixed.P(0, m.Ascent.Ceil())
	d.DrawString(text)

	return Sample(img, float64(height), gap, sizePx)
}

// Sample walks a gap-spaced lattice over img scaled so that nativeHeight
// maps to sizePx, keeping lattice points that land on ink.
func Sample(img *image.Alpha, nativeHeight float64, gap int, sizePx float64) *PointCloud {
	b := img.Bounds()
	if b.Empty() || nativeHeight <= 0 {
		return nil
	}
	scale := sizePx / nativeHeight
	w := float64(b.Dx()) * scale
	h := float64(b.Dy()) * scale
	step := float64(gap)

	var pts []Point
	for y := 0.0; y < h; y += step {
		for x := 0.0; x < w; x += step {
			sx := b.Min.X + int(x/scale)
			sy := b.Min.Y + int(y/scale)
			if img.AlphaAt(sx, sy).A >= alphaThreshold {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	if len(pts) == 0 {
		return nil
	}
	return &PointCloud{Points: pts, Width: w, Height: h}
}
