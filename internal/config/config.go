package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file, relative to the process working directory.
const DefaultPath = "config/housedev.yaml"

// PathEnv overrides DefaultPath when set.
const PathEnv = "HOUSEDEV_CONFIG"

// Window holds the rendering surface options.
type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	// Antialias requests 4x MSAA.
	Antialias bool `yaml:"antialias"`
	// HighDPI adapts the framebuffer to the device pixel ratio.
	HighDPI   bool `yaml:"high_dpi"`
	VSync     bool `yaml:"vsync"`
	TargetFPS int  `yaml:"target_fps"`
}

// Physics holds the simulation options. Colliders are always attached; Enabled only controls stepping.
type Physics struct {
	Enabled bool       `yaml:"enabled"`
	Gravity [3]float32 `yaml:"gravity"`
}

// Config is the application configuration.
type Config struct {
	AssetPath string  `yaml:"asset_path"`
	LogPath   string  `yaml:"log_path"`
	Window    Window  `yaml:"window"`
	Physics   Physics `yaml:"physics"`
	// AutoClear clears the color buffer every frame. The sky box covers the view, so it is off by default.
	// The depth buffer is cleared every frame regardless.
	AutoClear bool `yaml:"auto_clear"`
	ShowFPS   bool `yaml:"show_fps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AssetPath: "./files/house.glb",
		LogPath:   "logs/housedev.txt",
		Window: Window{
			Title:     "housedev",
			Width:     1280,
			Height:    720,
			Resizable: true,
			Antialias: true,
			HighDPI:   true,
			VSync:     true,
			TargetFPS: 60,
		},
		Physics: Physics{
			Enabled: false,
			Gravity: [3]float32{0, -9.81, 0},
		},
	}
}

// Path returns the config file path, honoring PathEnv.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config at path over Default(). A missing file is not an error.
// An unreadable or invalid file returns Default() together with the error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.AssetPath == "":
		return errors.New("asset_path is empty")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.TargetFPS < 0:
		return fmt.Errorf("target_fps %d must not be negative", c.Window.TargetFPS)
	}
	return nil
}
