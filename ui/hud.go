package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Stars        int
	Sparks       int
	Budget       int // particle count shown as a full bar
	Colors       []ColorCount
	Frame        int32
	SimSpeed     float64
	Quality      int
	LongExposure bool
	FPS          int32
	Paused       bool
	ShowClockMs  float64
	PendingCues  int
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD at the top right of a screen width wide.
func (h *HUD) Draw(data HUDData, width int32) {
	r := h.renderer
	panelW := int32(260)
	x := width - panelW - 10
	y := int32(10)

	r.DrawPanel(x, y, panelW, r.Theme.LineHeight*8+r.Theme.Padding*2)
	x += r.Theme.Padding
	y += r.Theme.Padding

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Stars", fmt.Sprintf("%d", data.Stars))
	y = r.DrawLabelValue(x, y, "Sparks", fmt.Sprintf("%d", data.Sparks))
	if data.Budget > 0 {
		y = r.DrawBar(x, y, "Load", float32(data.Stars+data.Sparks)/float32(data.Budget), 0.8, panelW-r.Theme.Padding*2)
	}
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.1fx q%d", data.SimSpeed, data.Quality))
	y = r.DrawLabelValue(x, y, "Show", fmt.Sprintf("%.1fs (%d cues)", data.ShowClockMs/1000, data.PendingCues))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d @ %d fps", data.Frame, data.FPS))
	r.DrawPaletteCounts(x, y, data.Colors)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	} else if data.LongExposure {
		status = "Long exposure"
	}
	rl.DrawText(status, 10, data.ScreenHeight-45, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %dus  Max: %dus", stats.AvgTickDuration.Microseconds(), stats.MaxTickDuration.Microseconds()), x, y, 14, rl.Yellow)
	y += 16

	rl.DrawText(fmt.Sprintf("Load: %.0f particles  %.0fns each", stats.AvgParticles, stats.StepNsPerParticle), x, y, 12, rl.LightGray)
	y += 14

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %6s %5.1f%%", phase.String(), stats.PhaseAvg[phase], pct), x, y, 12, color)
		y += 14
	}
}
