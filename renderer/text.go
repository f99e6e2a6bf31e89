package renderer

import (
	"image"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/glyph"
)

// FontRasterizer renders text with raylib fonts on the CPU (ImageTextEx) and
// samples the result into a point cloud. Families map to font files; an
// unknown family falls back to raylib's default font.
type FontRasterizer struct {
	files map[string]string
	fonts map[string]rl.Font
}

// NewFontRasterizer creates a rasterizer for the given family -> file map.
// Must be used after the raylib window is created.
func NewFontRasterizer(files map[string]string) *FontRasterizer {
	return &FontRasterizer{
		files: files,
		fonts: make(map[string]rl.Font),
	}
}

// Rasterize implements glyph.Rasterizer.
func (r *FontRasterizer) Rasterize(text string, gap int, family string, sizePx float64) *glyph.PointCloud {
	if strings.TrimSpace(text) == "" || gap < 1 || !(sizePx > 0) {
		return nil
	}

	font := r.font(family)
	img := rl.ImageTextEx(font, text, float32(sizePx), 0, rl.White)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	w, h := int(img.Width), int(img.Height)
	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := 0; i < w*h && i < len(colors); i++ {
		alpha.Pix[i] = colors[i].A
	}

	// Rendered at the requested size already, so no lattice scaling
	return glyph.Sample(alpha, float64(h), gap, float64(h))
}

func (r *FontRasterizer) font(family string) rl.Font {
	if f, ok := r.fonts[family]; ok {
		return f
	}
	f := rl.GetFontDefault()
	if path, ok := r.files[family]; ok && path != "" {
		loaded := rl.LoadFont(path)
		if loaded.Texture.ID != 0 {
			f = loaded
		} else {
			slog.Debug("font load failed, using default", "family", family, "path", path)
		}
	}
	r.fonts[family] = f
	return f
}

// Unload frees every loaded font.
func (r *FontRasterizer) Unload() {
	def := rl.GetFontDefault()
	for family, f := range r.fonts {
		if f.Texture.ID != def.Texture.ID {
			rl.UnloadFont(f)
		}
		delete(r.fonts, family)
	}
}

var _ glyph.Rasterizer = (*FontRasterizer)(nil)
