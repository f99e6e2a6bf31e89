// Package palette defines the closed set of particle colours.
package palette

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Color identifies a particle colour. Invisible is a sentinel: the particle
// exists physically (and can colour its children) but is never stroked.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Purple
	Gold
	White
	Cyan
	Magenta
	Lime
	Orange
	Pink
	Invisible

	// Count is the number of colour keys including Invisible.
	Count = int(Invisible) + 1
)

var names = [Count]string{
	"red", "green", "blue", "purple", "gold", "white",
	"cyan", "magenta", "lime", "orange", "pink", "invisible",
}

var hexCodes = [Count]string{
	"#ff0043", "#14fc56", "#1e7fff", "#e60aff", "#ffbf36", "#ffffff",
	"#00ffff", "#ff00ff", "#ccff00", "#ff9900", "#ff00cc", "#000000",
}

// table holds parsed colours, built once at init.
var table [Count]colorful.Color

// Visible lists every drawable colour in declaration order.
var Visible []Color

func init() {
	for i, hex := range hexCodes {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(fmt.Sprintf("palette: bad hex %q: %v", hex, err))
		}
		table[i] = c
	}
	for c := Red; c < Invisible; c++ {
		Visible = append(Visible, c)
	}
}

// String returns the lower-case colour name.
func (c Color) String() string {
	if int(c) >= Count {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return names[c]
}

// Drawn reports whether particles of this colour are stroked.
func (c Color) Drawn() bool {
	return c < Invisible
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return hexCodes[c]
}

// RGBA returns the opaque colour value.
func (c Color) RGBA() color.RGBA {
	r, g, b := table[c].RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Mix blends two palette colours in RGB space, t in [0,1].
func Mix(a, b Color, t float64) color.RGBA {
	r, g, bl := table[a].BlendRgb(table[b], t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}

// Random picks a visible colour uniformly.
func Random(rng *rand.Rand) Color {
	return Visible[rng.Intn(len(Visible))]
}

// Parse looks a colour up by name.
func Parse(name string) (Color, error) {
	for i, n := range names {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", name)
}
