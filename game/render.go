package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/palette"
	"github.com/pthm-cable/fireworks/ui"
)

const controlsLegend = "[Click] Launch  [C] Countdown  [A] Ambient  [X] Clear  [1-3] Quality  [L] Long exposure  [H] Panel  [P] Perf  [Space] Pause"

// Draw presents the sky, both particle layers and the UI. The layers were
// rendered during Update.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	pw, ph := g.stage.PixelSize()
	g.background.Draw(pw, ph)
	g.trails.Present()
	g.main.Present()

	g.drawUI(pw, ph)

	rl.EndDrawing()
}

func (g *Game) drawUI(screenW, screenH int32) {
	settings, act := g.controls.Draw(ui.SettingsFrom(g.engine))
	settings.Apply(g.engine)
	if act.Launch {
		g.LaunchRandom()
	}
	if act.Countdown {
		g.timeline.StartCountdown()
	}
	if act.Clear {
		g.engine.Clear()
	}

	g.hud.Draw(ui.HUDData{
		Title:        "Fireworks",
		Stars:        g.engine.Stars().Len(),
		Sparks:       g.engine.Sparks().Len(),
		Budget:       particleBudget,
		Colors:       g.colorCounts(),
		Frame:        g.frame,
		SimSpeed:     g.engine.SimSpeed(),
		Quality:      g.engine.Quality(),
		LongExposure: g.engine.LongExposure(),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ShowClockMs:  g.timeline.Clock(),
		PendingCues:  g.timeline.Pending(),
		ScreenHeight: screenH,
	}, screenW)

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	g.hud.DrawControls(screenH, controlsLegend)
}

// colorCounts returns live particles per drawable colour, skipping empty ones.
func (g *Game) colorCounts() []ui.ColorCount {
	var counts []ui.ColorCount
	for _, c := range palette.Visible {
		n := len(g.engine.Stars().Bucket(c)) + len(g.engine.Sparks().Bucket(c))
		if n > 0 {
			counts = append(counts, ui.ColorCount{Color: c, Count: n})
		}
	}
	return counts
}
