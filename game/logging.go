package game

import "log/slog"

// logPerf logs frame timing once per perf window when stats logging is on.
func (g *Game) logPerf() {
	window := int32(g.cfg.Telemetry.PerfCollectorWindow)
	if !g.logStats || window <= 0 || g.frame%window != 0 {
		return
	}
	g.perfCollector.Stats().LogStats()
}

// logSummary logs run totals at shutdown.
func (g *Game) logSummary() {
	c := g.engine.Counters()
	slog.Info("run summary",
		"frames", g.frame,
		"sim_time", g.collector.SimTimeSec(),
		"launches", c.Launches,
		"bursts", c.Bursts,
		"stars_spawned", c.StarsSpawned,
		"sparks_emitted", c.SparksEmitted,
		"word_bursts", c.WordBursts,
		"expired", c.Expired,
		"cues_fired", g.timeline.Fired(),
	)
}
