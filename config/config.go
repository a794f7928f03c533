// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Paddle    PaddleConfig    `yaml:"paddle"`
	Ball      BallConfig      `yaml:"ball"`
	Physics   PhysicsConfig   `yaml:"physics"`
	AI        AIConfig        `yaml:"ai"`
	Effects   EffectsConfig   `yaml:"effects"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// FieldConfig holds the initial playfield size.
// The host resizes the field with the window; these values only seed headless runs.
type FieldConfig struct {
	Width  float64 `yaml:"width"`  // 0 = use screen width
	Height float64 `yaml:"height"` // 0 = use screen height
}

// PaddleConfig holds paddle geometry and speeds.
type PaddleConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	PlayerSpeed float64 `yaml:"player_speed"` // keyboard nudge per key press
	AISpeed     float64 `yaml:"ai_speed"`     // max displacement per reference step
}

// BallConfig holds ball geometry and restart parameters.
type BallConfig struct {
	Radius       float64 `yaml:"radius"`
	RestartSpeed float64 `yaml:"restart_speed"` // speed after every point
	LaunchAngle  float64 `yaml:"launch_angle"`  // max launch deviation in radians
}

// PhysicsConfig holds step timing and bounce response parameters.
type PhysicsConfig struct {
	ReferenceFPS float64 `yaml:"reference_fps"` // steps per second that deltaFactor normalizes to
	MaxDeltaMs   float64 `yaml:"max_delta_ms"`  // loop driver clamp for a single frame
	SpeedGain    float64 `yaml:"speed_gain"`    // multiplier applied on every paddle bounce
	MaxSpeed     float64 `yaml:"max_speed"`     // cap for ball speed in units per reference step
	AngleFactor  float64 `yaml:"angle_factor"`  // scales impact offset into vertical velocity
	Clearance    float64 `yaml:"clearance"`     // gap left between ball and paddle after a hit
}

// AIConfig holds the AI paddle behavior settings.
type AIConfig struct {
	ErrorMargin       float64 `yaml:"error_margin"`        // px of random aim offset
	ReactionTime      float64 `yaml:"reaction_time"`       // ms between retargets
	MissChance        float64 `yaml:"miss_chance"`         // probability of a deliberate miss when close
	SpeedFactor       float64 `yaml:"speed_factor"`        // multiplier on paddle.ai_speed
	CloseThreshold    float64 `yaml:"close_threshold"`     // distance from the AI side that counts as close
	MissOffsetFactor  float64 `yaml:"miss_offset_factor"`  // miss offset in paddle heights
	MissWindow        float64 `yaml:"miss_window"`         // ms a deliberate miss stays active
	PassThroughChance float64 `yaml:"pass_through_chance"` // chance to skip the bounce inside the window
}

// EffectsConfig holds hit spark parameters.
type EffectsConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MaxSparks    int     `yaml:"max_sparks"`
	SparksPerHit int     `yaml:"sparks_per_hit"`
	SparkLife    float64 `yaml:"spark_life"`  // seconds
	SparkSpeed   float64 `yaml:"spark_speed"` // units per second
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // simulation seconds per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FieldWidth      float64       // Effective field width
	FieldHeight     float64       // Effective field height
	ReferenceStepMs float64       // 1000 / Physics.ReferenceFPS
	ReactionTime    time.Duration // AI.ReactionTime as a duration
	MissWindow      time.Duration // AI.MissWindow as a duration
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

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks value ranges. Type errors are caught by the YAML decoder.
func (c *Config) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"field.width", c.Field.Width},
		{"field.height", c.Field.Height},
		{"ai.error_margin", c.AI.ErrorMargin},
		{"ai.reaction_time", c.AI.ReactionTime},
		{"ai.speed_factor", c.AI.SpeedFactor},
		{"ai.close_threshold", c.AI.CloseThreshold},
		{"ai.miss_window", c.AI.MissWindow},
		{"physics.max_delta_ms", c.Physics.MaxDeltaMs},
		{"physics.clearance", c.Physics.Clearance},
		{"physics.angle_factor", c.Physics.AngleFactor},
		{"ball.launch_angle", c.Ball.LaunchAngle},
	}
	for _, f := range nonNegative {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a finite value >= 0, got %v: %w", f.name, f.v, ErrInvalidConfig)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"paddle.width", c.Paddle.Width},
		{"paddle.height", c.Paddle.Height},
		{"paddle.player_speed", c.Paddle.PlayerSpeed},
		{"paddle.ai_speed", c.Paddle.AISpeed},
		{"ball.radius", c.Ball.Radius},
		{"ball.restart_speed", c.Ball.RestartSpeed},
		{"physics.reference_fps", c.Physics.ReferenceFPS},
		{"physics.max_speed", c.Physics.MaxSpeed},
		{"physics.speed_gain", c.Physics.SpeedGain},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a finite value > 0, got %v: %w", f.name, f.v, ErrInvalidConfig)
		}
	}

	probabilities := []struct {
		name string
		v    float64
	}{
		{"ai.miss_chance", c.AI.MissChance},
		{"ai.pass_through_chance", c.AI.PassThroughChance},
	}
	for _, f := range probabilities {
		if !(f.v >= 0 && f.v <= 1) {
			return fmt.Errorf("%s must be in [0, 1], got %v: %w", f.name, f.v, ErrInvalidConfig)
		}
	}

	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		return fmt.Errorf("screen size must be >= 0, got %dx%d: %w", c.Screen.Width, c.Screen.Height, ErrInvalidConfig)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Field dimensions default to screen size if not specified
	c.Derived.FieldWidth = c.Field.Width
	if c.Derived.FieldWidth == 0 {
		c.Derived.FieldWidth = float64(c.Screen.Width)
	}
	c.Derived.FieldHeight = c.Field.Height
	if c.Derived.FieldHeight == 0 {
		c.Derived.FieldHeight = float64(c.Screen.Height)
	}

	c.Derived.ReferenceStepMs = 1000.0 / c.Physics.ReferenceFPS
	c.Derived.ReactionTime = msToDuration(c.AI.ReactionTime)
	c.Derived.MissWindow = msToDuration(c.AI.MissWindow)
}

// Refresh revalidates and recomputes derived values after in-place edits.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
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
