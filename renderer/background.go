package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// BackgroundRenderer fills the window with a vertical night-sky gradient
// under the particle layers.
type BackgroundRenderer struct {
	top, bottom rl.Color
}

// NewBackgroundRenderer creates a sky running from top to bottom, both given
// as #rrggbb. Bad hex falls back to black.
func NewBackgroundRenderer(topHex, bottomHex string) *BackgroundRenderer {
	return &BackgroundRenderer{
		top:    hexColor(topHex),
		bottom: hexColor(bottomHex),
	}
}

// Draw fills w x h pixels with the gradient.
func (b *BackgroundRenderer) Draw(w, h int32) {
	rl.DrawRectangleGradientV(0, 0, w, h, b.top, b.bottom)
}

func hexColor(hex string) rl.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.Black
	}
	r, g, bl := c.RGB255()
	return rl.Color{R: r, G: g, B: bl, A: 255}
}
