package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphpunk.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Default ---

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != 64 || cfg.Display.Height != 32 {
		t.Errorf("display = %dx%d, want 64x32", cfg.Display.Width, cfg.Display.Height)
	}
}

// --- TOML ---

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
name = "demo"
platform = "headless"

[display]
width = 32
height = 16
background = [0.1, 0.2, 0.3, 1.0]

[loop]
target_fps = 30
max_frames = 10

[assets]
dir = "assets"
preload = ["shaders/basic.vert.glsl"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "demo" || cfg.Platform != PlatformHeadless {
		t.Errorf("name = %q platform = %q", cfg.Name, cfg.Platform)
	}
	if cfg.Display.Width != 32 || cfg.Display.Height != 16 {
		t.Errorf("display = %dx%d, want 32x16", cfg.Display.Width, cfg.Display.Height)
	}
	if !slices.Equal(cfg.Display.Background, []float32{0.1, 0.2, 0.3, 1}) {
		t.Errorf("background = %v", cfg.Display.Background)
	}
	if cfg.Loop.MaxFrames != 10 || cfg.Loop.TargetFPS != 30 {
		t.Errorf("loop = %+v", cfg.Loop)
	}
	// Untouched sections keep their defaults.
	if cfg.Jobs.Workers != 2 || !cfg.Display.PixelGrid {
		t.Errorf("defaults lost: jobs = %+v pixel_grid = %v", cfg.Jobs, cfg.Display.PixelGrid)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "name = \"demo\"\nwindow_title = \"nope\"\n")
	if _, err := Load(path); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

// --- Environment ---

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[display]\nwidth = 32\n")
	t.Setenv("GRAPHPUNK_DISPLAY_WIDTH", "48")
	t.Setenv("GRAPHPUNK_LOOP_MAX_FRAMES", "5")
	t.Setenv("GRAPHPUNK_DISPLAY_BACKGROUND", "1,1,1,1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != 48 {
		t.Errorf("width = %d, want 48", cfg.Display.Width)
	}
	if cfg.Loop.MaxFrames != 5 {
		t.Errorf("max_frames = %d, want 5", cfg.Loop.MaxFrames)
	}
	if !slices.Equal(cfg.Display.Background, []float32{1, 1, 1, 1}) {
		t.Errorf("background = %v", cfg.Display.Background)
	}
}

func TestEnvBadValue(t *testing.T) {
	t.Setenv("GRAPHPUNK_JOBS_WORKERS", "many")
	if _, err := Load(""); err == nil {
		t.Error("non-numeric workers should fail")
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ApplicationConfig)
	}{
		{"empty name", func(c *ApplicationConfig) { c.Name = "" }},
		{"log level", func(c *ApplicationConfig) { c.LogLevel = "loud" }},
		{"platform", func(c *ApplicationConfig) { c.Platform = "window" }},
		{"zero width", func(c *ApplicationConfig) { c.Display.Width = 0 }},
		{"background channels", func(c *ApplicationConfig) { c.Display.Background = []float32{1, 1, 1} }},
		{"background range", func(c *ApplicationConfig) { c.Display.Background = []float32{2, 0, 0, 1} }},
		{"negative fps", func(c *ApplicationConfig) { c.Loop.TargetFPS = -1 }},
		{"no workers", func(c *ApplicationConfig) { c.Jobs.Workers = 0 }},
		{"negative queue", func(c *ApplicationConfig) { c.Jobs.QueueSize = -1 }},
		{"preload without dir", func(c *ApplicationConfig) { c.Assets.Preload = []string{"a.txt"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
