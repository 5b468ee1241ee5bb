// Package config loads the starfield's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/frankfika/thanksgiving/internal/layout"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/store"
)

// Config holds starfield configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Physics  PhysicsConfig  `toml:"physics"`
	Store    StoreConfig    `toml:"store"`
	Analysis AnalysisConfig `toml:"analysis"`
	Limit    LimitConfig    `toml:"limit"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
}

// PhysicsConfig tunes the layout engine.
type PhysicsConfig struct {
	Charge          float64 `toml:"charge"`
	CollideStrength float64 `toml:"collide_strength"`
	SizeFactor      float64 `toml:"size_factor"`
	BoundaryNudge   float64 `toml:"boundary_nudge"`
	VelocityDecay   float64 `toml:"velocity_decay"`
	DriftAmplitude  float64 `toml:"drift_amplitude"`
	DriftDamping    float64 `toml:"drift_damping"`
	DriftIntervalMS int     `toml:"drift_interval_ms"`
	AlphaStart      float64 `toml:"alpha_start"`
	AlphaDecay      float64 `toml:"alpha_decay"`
	AlphaFloor      float64 `toml:"alpha_floor"`
	DragAlphaTarget float64 `toml:"drag_alpha_target"`
	Seed            uint64  `toml:"seed"` // 0 picks a random seed
}

// StoreConfig selects where stars are kept.
type StoreConfig struct {
	Backend  string `toml:"backend"` // "sqlite", "memory", "remote"
	Path     string `toml:"path"`    // sqlite file; empty means <config dir>/stars.db
	URL      string `toml:"url"`     // remote API base URL
	Capacity int    `toml:"capacity"`
}

// AnalysisConfig selects the analyzer.
type AnalysisConfig struct {
	Provider       string `toml:"provider"` // "keyword", "deepseek", "remote"
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"` // empty falls back to the environment
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LimitConfig controls the daily quota.
type LimitConfig struct {
	Daily int `toml:"daily"`
}

// ServerConfig controls the API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the default configuration.
func Default() *Config {
	p := layout.DefaultParams()
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Gratitude Starfield"},
		Physics: PhysicsConfig{
			Charge:          p.Charge,
			CollideStrength: p.CollideStrength,
			SizeFactor:      p.SizeFactor,
			BoundaryNudge:   p.BoundaryNudge,
			VelocityDecay:   p.VelocityDecay,
			DriftAmplitude:  p.DriftAmplitude,
			DriftDamping:    p.DriftDamping,
			DriftIntervalMS: int(p.DriftInterval / time.Millisecond),
			AlphaStart:      p.AlphaStart,
			AlphaDecay:      p.AlphaDecay,
			AlphaFloor:      p.AlphaFloor,
			DragAlphaTarget: p.DragAlphaTarget,
		},
		Store:    StoreConfig{Backend: "sqlite", Capacity: store.DefaultCapacity},
		Analysis: AnalysisConfig{Provider: "keyword", TimeoutSeconds: 30},
		Limit:    LimitConfig{Daily: ratelimit.DefaultDailyLimit},
		Server:   ServerConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info"},
	}
}

// Params converts the physics section to engine tuning.
func (p PhysicsConfig) Params() layout.Params {
	out := layout.DefaultParams()
	out.Charge = p.Charge
	out.CollideStrength = p.CollideStrength
	out.SizeFactor = p.SizeFactor
	out.BoundaryNudge = p.BoundaryNudge
	out.VelocityDecay = p.VelocityDecay
	out.DriftAmplitude = p.DriftAmplitude
	out.DriftDamping = p.DriftDamping
	if p.DriftIntervalMS > 0 {
		out.DriftInterval = time.Duration(p.DriftIntervalMS) * time.Millisecond
	}
	out.AlphaStart = p.AlphaStart
	out.AlphaDecay = p.AlphaDecay
	out.AlphaFloor = p.AlphaFloor
	out.DriftAlpha = p.AlphaFloor
	out.DragAlphaTarget = p.DragAlphaTarget
	return out
}

// Timeout returns the analysis timeout.
func (a AnalysisConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Dir returns the starfield config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "starfield")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DatabasePath returns the sqlite file to use.
func (c *Config) DatabasePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(Dir(), "stars.db")
}

// Load reads the config at path over the defaults. An empty path means
// Path(); a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or Path() when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
