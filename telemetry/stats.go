package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of simulated time.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Live particles at window end
	Stars  int `csv:"stars"`
	Sparks int `csv:"sparks"`

	// Events during window
	Launches      int `csv:"launches"`
	Bursts        int `csv:"bursts"`
	StarsSpawned  int `csv:"stars_spawned"`
	SparksEmitted int `csv:"sparks_emitted"`
	WordBursts    int `csv:"word_bursts"`
	WordSparks    int `csv:"word_sparks"`
	Expired       int `csv:"expired"`

	// Star distribution (sampled at window end)
	StarLifeMean  float64 `csv:"star_life_mean"` // ms remaining
	StarLifeP50   float64 `csv:"star_life_p50"`
	StarLifeP90   float64 `csv:"star_life_p90"`
	StarSpeedMean float64 `csv:"star_speed_mean"` // px per frame
	StarSpeedStd  float64 `csv:"star_speed_std"`

	SparkSpeedMean float64 `csv:"spark_speed_mean"`

	LitColors      int     `csv:"lit_colors"` // visible colours with at least one particle
	EffectiveSpeed float64 `csv:"effective_speed"`
	Quality        int     `csv:"quality"`
}

// Active returns the live particle total.
func (s WindowStats) Active() int {
	return s.Stars + s.Sparks
}

// Percentile returns the empirical p-quantile of values. Returns 0 if
// values is empty. values is sorted in place.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if !sort.Float64sAreSorted(values) {
		sort.Float64s(values)
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, values, nil)
}

// ComputeLifeStats calculates mean and percentiles of remaining lives.
func ComputeLifeStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p50, p90
}

// ComputeSpeedStats calculates mean and sample standard deviation.
// Fewer than two values have zero deviation.
func ComputeSpeedStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("stars", s.Stars),
		slog.Int("sparks", s.Sparks),
		slog.Int("launches", s.Launches),
		slog.Int("bursts", s.Bursts),
		slog.Int("stars_spawned", s.StarsSpawned),
		slog.Int("sparks_emitted", s.SparksEmitted),
		slog.Int("word_bursts", s.WordBursts),
		slog.Int("word_sparks", s.WordSparks),
		slog.Int("expired", s.Expired),
		slog.Float64("star_life_mean", s.StarLifeMean),
		slog.Float64("star_life_p50", s.StarLifeP50),
		slog.Float64("star_life_p90", s.StarLifeP90),
		slog.Float64("star_speed_mean", s.StarSpeedMean),
		slog.Float64("star_speed_std", s.StarSpeedStd),
		slog.Float64("spark_speed_mean", s.SparkSpeedMean),
		slog.Int("lit_colors", s.LitColors),
		slog.Float64("effective_speed", s.EffectiveSpeed),
		slog.Int("quality", s.Quality),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
