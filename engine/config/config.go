// Package config loads the application configuration: defaults, then an
// optional TOML file, then GRAPHPUNK_ environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

const EnvPrefix = "GRAPHPUNK_"

const (
	PlatformTerminal = "terminal"
	PlatformHeadless = "headless"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type ApplicationConfig struct {
	// The application name, shown as the terminal title.
	Name     string `toml:"name" env:"NAME"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	// Either "terminal" or "headless".
	Platform string `toml:"platform" env:"PLATFORM"`

	Display DisplayConfig `toml:"display" envPrefix:"DISPLAY_"`
	Loop    LoopConfig    `toml:"loop" envPrefix:"LOOP_"`
	Assets  AssetsConfig  `toml:"assets" envPrefix:"ASSETS_"`
	Jobs    JobsConfig    `toml:"jobs" envPrefix:"JOBS_"`
}

type DisplayConfig struct {
	// Logical grid size. Drawables are positioned in these units.
	Width  int32 `toml:"width" env:"WIDTH"`
	Height int32 `toml:"height" env:"HEIGHT"`
	// Fill the store with one hidden rectangle per grid cell.
	PixelGrid bool `toml:"pixel_grid" env:"PIXEL_GRID"`
	// RGBA clear color, every channel in [0, 1].
	Background []float32 `toml:"background" env:"BACKGROUND" envSeparator:","`
}

type LoopConfig struct {
	// 0 runs unthrottled.
	TargetFPS float64 `toml:"target_fps" env:"TARGET_FPS"`
	// Stop after this many frames, 0 runs until quit.
	MaxFrames uint64 `toml:"max_frames" env:"MAX_FRAMES"`
	// Time the frame stages and log the averages at shutdown.
	Benchmark bool `toml:"benchmark" env:"BENCHMARK"`
}

type AssetsConfig struct {
	// Root of the watched asset tree, empty disables assets.
	Dir string `toml:"dir" env:"DIR"`
	// Paths under Dir loaded in the background at startup.
	Preload []string `toml:"preload" env:"PRELOAD" envSeparator:","`
}

type JobsConfig struct {
	Workers   int `toml:"workers" env:"WORKERS"`
	QueueSize int `toml:"queue_size" env:"QUEUE_SIZE"`
}

// Default returns a configuration that passes Validate.
func Default() ApplicationConfig {
	return ApplicationConfig{
		Name:     "GraphPunk",
		LogLevel: "info",
		Platform: PlatformTerminal,
		Display: DisplayConfig{
			Width:      64,
			Height:     32,
			PixelGrid:  true,
			Background: []float32{0, 0, 0, 1},
		},
		Loop: LoopConfig{
			TargetFPS: 60,
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 32,
		},
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// when path is not empty, and the environment, in that order. Unknown TOML
// keys are errors.
func Load(path string) (ApplicationConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode merges TOML data into cfg.
func Decode(data []byte, cfg *ApplicationConfig) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
}

// Validate reports every problem at once, each wrapping ErrInvalidConfig.
func (c ApplicationConfig) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Name == "" {
		invalid("name is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		invalid("log_level %q", c.LogLevel)
	}
	if c.Platform != PlatformTerminal && c.Platform != PlatformHeadless {
		invalid("platform %q, want %s or %s", c.Platform, PlatformTerminal, PlatformHeadless)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		invalid("display %dx%d", c.Display.Width, c.Display.Height)
	}
	if len(c.Display.Background) != 4 {
		invalid("background has %d channels, want 4", len(c.Display.Background))
	}
	for i, v := range c.Display.Background {
		if v < 0 || v > 1 {
			invalid("background channel %d is %v", i, v)
		}
	}
	if c.Loop.TargetFPS < 0 {
		invalid("target_fps %v", c.Loop.TargetFPS)
	}
	if c.Jobs.Workers < 1 {
		invalid("workers %d", c.Jobs.Workers)
	}
	if c.Jobs.QueueSize < 0 {
		invalid("queue_size %d", c.Jobs.QueueSize)
	}
	if len(c.Assets.Preload) > 0 && c.Assets.Dir == "" {
		invalid("preload without an assets dir")
	}
	return errors.Join(errs...)
}
