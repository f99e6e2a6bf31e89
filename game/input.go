package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/config"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Show control
	if rl.IsKeyPressed(rl.KeyC) {
		g.timeline.StartCountdown()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.timeline.StartAmbient()
	}
	if rl.IsKeyPressed(rl.KeyX) {
		g.engine.Clear()
	}

	// Engine settings
	if rl.IsKeyPressed(rl.KeyOne) {
		g.engine.SetQuality(config.QualityLow)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.engine.SetQuality(config.QualityNormal)
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.engine.SetQuality(config.QualityHigh)
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.engine.SetLongExposure(!g.engine.LongExposure())
	}

	// Panels
	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	// Click to launch, except on the controls panel
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if !g.controls.Contains(m.X, m.Y) {
			x, y := g.stage.ToStage(m.X, m.Y)
			g.LaunchAt(x, y)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.stage.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}
