// Package config provides configuration loading and access for the fireworks engine.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Stage size limits. Stages are clamped into [1, Max] on each axis.
const (
	MaxStageWidth  = 7680
	MaxStageHeight = 4320
)

// Quality tiers.
const (
	QualityLow    = 1
	QualityNormal = 2
	QualityHigh   = 3
)

// Config holds all engine configuration parameters.
type Config struct {
	Screen     ScreenConfig             `yaml:"screen"`
	Simulation SimulationConfig         `yaml:"simulation"`
	Stars      StarsConfig              `yaml:"stars"`
	Sparks     SparksConfig             `yaml:"sparks"`
	Launch     LaunchConfig             `yaml:"launch"`
	Comet      CometConfig              `yaml:"comet"`
	Shell      ShellConfig              `yaml:"shell"`
	Glitter    map[string]GlitterConfig `yaml:"glitter"`
	WordBurst  WordBurstConfig          `yaml:"word_burst"`
	Trails     TrailsConfig             `yaml:"trails"`
	Audio      AudioConfig              `yaml:"audio"`
	Show       ShowConfig               `yaml:"show"`
	Telemetry  TelemetryConfig          `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	DPR       float64 `yaml:"dpr"` // device pixel ratio (0 = 1)
	SkyTop    string  `yaml:"sky_top"`
	SkyBottom string  `yaml:"sky_bottom"`
}

// SimulationConfig holds the global integration parameters.
type SimulationConfig struct {
	Gravity      float64 `yaml:"gravity"`       // px per frame-unit per second
	SimSpeed     float64 `yaml:"sim_speed"`     // time multiplier (1 = real time)
	Quality      int     `yaml:"quality"`       // 1=low, 2=normal, 3=high
	LongExposure bool    `yaml:"long_exposure"` // near-zero trail fade
	FrameMS      float64 `yaml:"frame_ms"`      // nominal frame duration used to derive catch-up lag
}

// StarsConfig holds star population parameters.
type StarsConfig struct {
	AirDrag      float64 `yaml:"air_drag"`
	AirDragHeavy float64 `yaml:"air_drag_heavy"` // comets
	DrawWidth    float64 `yaml:"draw_width"`
}

// SparksConfig holds spark population parameters.
type SparksConfig struct {
	AirDrag       float64 `yaml:"air_drag"`
	DrawWidth     float64 `yaml:"draw_width"`
	DrawWidthHigh float64 `yaml:"draw_width_high"` // used at QualityHigh
}

// LaunchConfig holds comet launch geometry.
type LaunchConfig struct {
	HPad             float64 `yaml:"hpad"`
	VPad             float64 `yaml:"vpad"`
	MinHeightPercent float64 `yaml:"min_height_percent"` // lowest burst height as fraction of stage
	VelocityScale    float64 `yaml:"velocity_scale"`     // speed = (distance*scale)^exponent
	VelocityExponent float64 `yaml:"velocity_exponent"`
	FuseFactor       float64 `yaml:"fuse_factor"`       // comet life = speed * factor
	HorsetailSpeed   float64 `yaml:"horsetail_speed"`   // comet speed multiplier for horsetails
	HorsetailFuse    float64 `yaml:"horsetail_fuse"`    // fuse factor for horsetails
}

// CometConfig holds the sparkle trail emitted by a rising comet.
type CometConfig struct {
	SparkFreq          float64 `yaml:"spark_freq"`      // divided by quality
	SparkFreqHigh      float64 `yaml:"spark_freq_high"` // fixed at QualityHigh
	SparkSpeed         float64 `yaml:"spark_speed"`
	SparkLife          float64 `yaml:"spark_life"`
	SparkLifeVariation float64 `yaml:"spark_life_variation"`
}

// ShellConfig holds shell recipe defaults.
type ShellConfig struct {
	StarLifeVariation float64 `yaml:"star_life_variation"`
	StarDensity       float64 `yaml:"star_density"`
	MinStarCount      int     `yaml:"min_star_count"`
	CountDivisor      float64 `yaml:"count_divisor"` // starCount = (spread/divisor)^2 * density
	SpeedDivisor      float64 `yaml:"speed_divisor"` // star speed = spread / divisor
	FlashDivisor      float64 `yaml:"flash_divisor"` // flash radius = spread / divisor
	SmallBurstSize    float64 `yaml:"small_burst_size"`
	CrackleChance     float64 `yaml:"crackle_chance"`
}

// GlitterConfig describes the sparks a burst star sheds while it burns.
type GlitterConfig struct {
	Freq          float64 `yaml:"freq"` // ms between sparks, divided by quality
	Speed         float64 `yaml:"speed"`
	Life          float64 `yaml:"life"`
	LifeVariation float64 `yaml:"life_variation"`
	Crackle       string  `yaml:"crackle"` // sound cue played on star death (optional)
}

// WordBurstConfig holds parameters for text-shaped spark placement.
type WordBurstConfig struct {
	Gap           int               `yaml:"gap"` // lattice step in px
	FontFamily    string            `yaml:"font_family"`
	FontSize      float64           `yaml:"font_size"`
	Life          float64           `yaml:"life"`
	Speed         float64           `yaml:"speed"`
	SpeedExponent float64           `yaml:"speed_exponent"`
	Fonts         map[string]string `yaml:"fonts"` // family -> font file
}

// TrailsConfig holds compositor parameters.
type TrailsConfig struct {
	FadeAlpha         float64 `yaml:"fade_alpha"`          // multiplied by effective speed
	LongExposureAlpha float64 `yaml:"long_exposure_alpha"` // used when long exposure is on
	HeadLength        float64 `yaml:"head_length"`         // comet head streak = velocity * this
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled    bool                   `yaml:"enabled"`
	Dir        string                 `yaml:"dir"`
	SampleRate int                    `yaml:"sample_rate"`
	Sources    map[string]SoundSource `yaml:"sources"`
}

// SoundSource describes the file variants for one cue key.
type SoundSource struct {
	Volume          float64  `yaml:"volume"`
	PlaybackRateMin float64  `yaml:"playback_rate_min"`
	PlaybackRateMax float64  `yaml:"playback_rate_max"`
	FileNames       []string `yaml:"file_names"`
}

// ShowConfig holds the countdown timeline parameters.
type ShowConfig struct {
	CountdownFrom   int     `yaml:"countdown_from"`
	CountInterval   float64 `yaml:"count_interval_ms"`
	HeadlineDelay   float64 `yaml:"headline_delay_ms"`
	Headline        string  `yaml:"headline"`
	Subline         string  `yaml:"subline"`
	FinaleShells    int     `yaml:"finale_shells"`
	FinaleInterval  float64 `yaml:"finale_interval_ms"`
	RevealDelay     float64 `yaml:"reveal_delay_ms"`
	RevealEchoDelay float64 `yaml:"reveal_echo_delay_ms"`
	Year            string  `yaml:"year"`
	AmbientInterval float64 `yaml:"ambient_interval_ms"`
	AmbientChance   float64 `yaml:"ambient_chance"`
	ShellSizes      []int   `yaml:"shell_sizes"`
	CountScale      float64 `yaml:"count_scale"` // font scales of the word bursts
	HeadlineScale   float64 `yaml:"headline_scale"`
	YearScale       float64 `yaml:"year_scale"`
	HeadlineOffset  float64 `yaml:"headline_offset"` // px from stage centre, negative is up
	SublineOffset   float64 `yaml:"subline_offset"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StageW, StageH float64 // clamped stage dimensions
	DPR            float64 // device pixel ratio, never below 1
	Quality        int     // clamped quality tier
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StageW, c.Derived.StageH = ClampStage(float64(c.Screen.Width), float64(c.Screen.Height))

	c.Derived.DPR = c.Screen.DPR
	if c.Derived.DPR < 1 || math.IsNaN(c.Derived.DPR) {
		c.Derived.DPR = 1
	}

	c.Derived.Quality = ClampQuality(c.Simulation.Quality)

	if c.Simulation.SimSpeed <= 0 {
		c.Simulation.SimSpeed = 1
	}
	if c.Simulation.FrameMS <= 0 {
		c.Simulation.FrameMS = 1000.0 / 60.0
	}
	if c.Shell.MinStarCount < 1 {
		c.Shell.MinStarCount = 6
	}
	if c.WordBurst.Gap < 1 {
		c.WordBurst.Gap = 1
	}
	if c.Shell.CountDivisor <= 0 {
		c.Shell.CountDivisor = 54
	}
	if c.Shell.SpeedDivisor <= 0 {
		c.Shell.SpeedDivisor = 96
	}
	if c.Shell.FlashDivisor <= 0 {
		c.Shell.FlashDivisor = 4
	}
}

// ClampQuality forces a quality value into the supported tiers.
func ClampQuality(q int) int {
	if q < QualityLow {
		return QualityLow
	}
	if q > QualityHigh {
		return QualityHigh
	}
	return q
}

// ClampStage forces stage dimensions into [1, Max]. NaN becomes 1.
func ClampStage(w, h float64) (float64, float64) {
	return clampDim(w, MaxStageWidth), clampDim(h, MaxStageHeight)
}

func clampDim(v, max float64) float64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
