package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/sim"
)

// Speed slider bounds.
const (
	MinSimSpeed = 0.1
	MaxSimSpeed = 3.0
)

// Settings is what the controls panel edits.
type Settings struct {
	Quality      int
	SimSpeed     float32
	LongExposure bool
}

// SettingsFrom reads the current engine settings.
func SettingsFrom(e *sim.Engine) Settings {
	return Settings{
		Quality:      e.Quality(),
		SimSpeed:     float32(e.SimSpeed()),
		LongExposure: e.LongExposure(),
	}
}

// Apply pushes changed settings into the engine and reports whether
// anything changed.
func (s Settings) Apply(e *sim.Engine) bool {
	cur := SettingsFrom(e)
	if s == cur {
		return false
	}
	if s.Quality != cur.Quality {
		e.SetQuality(s.Quality)
	}
	if s.SimSpeed != cur.SimSpeed {
		e.SetSimSpeed(float64(clampSpeed(s.SimSpeed)))
	}
	if s.LongExposure != cur.LongExposure {
		e.SetLongExposure(s.LongExposure)
	}
	return true
}

// Actions are one-shot requests raised by panel buttons in the current frame.
type Actions struct {
	Launch    bool
	Countdown bool
	Clear     bool
}

// ControlsPanel renders the raygui settings panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point falls on the visible panel, so
// clicks there are not taken as launches.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.bounds())
}

func (c *ControlsPanel) bounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: float32(c.height()),
	}
}

func (c *ControlsPanel) height() int32 {
	r := c.renderer
	return r.Theme.Padding*2 + r.Theme.LineHeight + 5*32
}

// Draw renders the panel and returns the edited settings and button actions.
func (c *ControlsPanel) Draw(s Settings) (Settings, Actions) {
	var act Actions
	if !c.visible {
		return s, act
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + pad)
	y := c.y + pad
	w := float32(c.width - pad*2)

	y = r.DrawSectionHeader(c.x+pad, y, "Fireworks")

	// Quality tiers 1..3 map to toggle indices 0..2
	active := gui.ToggleGroup(rl.Rectangle{X: x, Y: float32(y), Width: w/3 - 2, Height: 24},
		"Low;Normal;High", int32(s.Quality-config.QualityLow))
	s.Quality = config.ClampQuality(int(active) + config.QualityLow)
	y += 32

	s.SimSpeed = gui.SliderBar(rl.Rectangle{X: x + 40, Y: float32(y), Width: w - 80, Height: 20},
		"Speed", fmt.Sprintf("%.1fx", s.SimSpeed), s.SimSpeed, MinSimSpeed, MaxSimSpeed)
	y += 32

	s.LongExposure = gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 20, Height: 20}, "Long exposure", s.LongExposure)
	y += 32

	half := w/2 - 4
	act.Launch = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, "Launch")
	act.Countdown = gui.Button(rl.Rectangle{X: x + half + 8, Y: float32(y), Width: half, Height: 24}, "Countdown")
	y += 32

	act.Clear = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: 24}, "Clear sky")

	return s, act
}

func clampSpeed(v float32) float32 {
	if v < MinSimSpeed || v != v {
		return MinSimSpeed
	}
	if v > MaxSimSpeed {
		return MaxSimSpeed
	}
	return v
}
