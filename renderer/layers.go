package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/palette"
)

// OpenGL blend constants for the custom "lighten" mode.
const (
	glOne = 0x0001
	glMax = 0x8008
)

// RaylibLayer is a Layer backed by a render texture. Stage coordinates are
// scaled by the device pixel ratio into texture pixels.
type RaylibLayer struct {
	target     rl.RenderTexture2D
	background rl.Color
	scale      float32
	w, h       int32
	loaded     bool
}

// NewRaylibLayer creates a layer of w x h pixels. background is the colour
// the texture starts with (opaque black for trails, blank for the main layer).
// Must be called after the raylib window is created.
func NewRaylibLayer(w, h int32, scale float32, background rl.Color) *RaylibLayer {
	l := &RaylibLayer{background: background, scale: scale}
	l.Resize(w, h, scale)
	return l
}

// Resize recreates the texture at a new size. Contents are lost.
func (l *RaylibLayer) Resize(w, h int32, scale float32) {
	if l.loaded && w == l.w && h == l.h && scale == l.scale {
		return
	}
	l.Unload()
	l.w, l.h, l.scale = w, h, scale
	l.target = rl.LoadRenderTexture(w, h)
	l.loaded = true

	rl.BeginTextureMode(l.target)
	rl.ClearBackground(l.background)
	rl.EndTextureMode()
}

// Begin implements Layer.
func (l *RaylibLayer) Begin() {
	rl.BeginTextureMode(l.target)
}

// End implements Layer.
func (l *RaylibLayer) End() {
	rl.EndTextureMode()
}

// Fade implements Layer by overdrawing translucent black.
func (l *RaylibLayer) Fade(alpha float32) {
	if alpha <= 0 {
		return
	}
	a := uint8(alpha*255 + 0.5)
	if a == 0 {
		// Long exposure still decays, just slowly
		a = 1
	}
	rl.DrawRectangle(0, 0, l.w, l.h, rl.Color{R: 0, G: 0, B: 0, A: a})
}

// Clear implements Layer.
func (l *RaylibLayer) Clear() {
	rl.ClearBackground(l.background)
}

// Strokes implements Layer.
func (l *RaylibLayer) Strokes(color palette.Color, width float32, blend Blend, segs []Segment) {
	if !color.Drawn() || len(segs) == 0 {
		return
	}
	c := color.RGBA()
	col := rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
	thick := width * l.scale

	l.beginBlend(blend)
	for i := range segs {
		s := &segs[i]
		rl.DrawLineEx(
			rl.Vector2{X: s.X1 * l.scale, Y: s.Y1 * l.scale},
			rl.Vector2{X: s.X2 * l.scale, Y: s.Y2 * l.scale},
			thick,
			col,
		)
	}
	l.endBlend(blend)
}

// Flash implements Layer with an additive white gradient.
func (l *RaylibLayer) Flash(x, y, radius float32) {
	if radius <= 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawCircleGradient(
		int32(x*l.scale),
		int32(y*l.scale),
		radius*l.scale,
		rl.Color{R: 255, G: 255, B: 255, A: 255},
		rl.Color{R: 255, G: 255, B: 255, A: 0},
	)
	rl.EndBlendMode()
}

func (l *RaylibLayer) beginBlend(b Blend) {
	switch b {
	case BlendLighten:
		rl.SetBlendFactors(glOne, glOne, glMax)
		rl.BeginBlendMode(rl.BlendCustom)
	case BlendAdd:
		rl.BeginBlendMode(rl.BlendAdditive)
	}
}

func (l *RaylibLayer) endBlend(b Blend) {
	if b != BlendNormal {
		rl.EndBlendMode()
	}
}

// Present draws the layer to the current target at window size.
// Layers are composited additively so black contributes nothing.
func (l *RaylibLayer) Present() {
	// Render textures are upside down (OpenGL convention), so flip
	src := rl.Rectangle{X: 0, Y: float32(l.h), Width: float32(l.w), Height: -float32(l.h)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(l.w), Height: float32(l.h)}

	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawTexturePro(l.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndBlendMode()
}

// Unload frees the texture.
func (l *RaylibLayer) Unload() {
	if l.loaded {
		rl.UnloadRenderTexture(l.target)
		l.loaded = false
	}
}

var _ Layer = (*RaylibLayer)(nil)
