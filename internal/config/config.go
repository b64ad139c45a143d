// Package config loads and watches the engine's operator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full operator configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Preview     PreviewConfig     `toml:"preview"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Thumbnails  ThumbnailConfig   `toml:"thumbnails"`
	Log         LogConfig         `toml:"log"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PreviewConfig configures the sync session's windows.
type PreviewConfig struct {
	RenderDebounceMS int `toml:"render_debounce_ms"`
	HighlightDecayMS int `toml:"highlight_decay_ms"`
}

// DiagnosticsConfig configures the diagnostics publisher's window. It is a
// separate timer from the render debounce and is configured independently.
type DiagnosticsConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// ThumbnailConfig configures the image thumbnail cache.
type ThumbnailConfig struct {
	Dir          string `toml:"dir"`
	TargetSizePX int    `toml:"target_size_px"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server:      ServerConfig{Addr: "127.0.0.1:4774"},
		Preview:     PreviewConfig{RenderDebounceMS: 300, HighlightDecayMS: 1000},
		Diagnostics: DiagnosticsConfig{DebounceMS: 300},
		Thumbnails:  ThumbnailConfig{Dir: defaultThumbnailDir(), TargetSizePX: 128},
		Log:         LogConfig{Level: "info"},
	}
}

func defaultThumbnailDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "livemark", "thumbnails")
	}
	return filepath.Join(os.TempDir(), "livemark-thumbnails")
}

// Load reads configuration from path, layered over the defaults and under
// environment overrides. A missing file is not an error; an empty path skips
// file loading entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays LIVEMARK_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("LIVEMARK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v, ok := envInt("LIVEMARK_RENDER_DEBOUNCE_MS"); ok {
		c.Preview.RenderDebounceMS = v
	}
	if v, ok := envInt("LIVEMARK_HIGHLIGHT_DECAY_MS"); ok {
		c.Preview.HighlightDecayMS = v
	}
	if v, ok := envInt("LIVEMARK_DIAGNOSTICS_DEBOUNCE_MS"); ok {
		c.Diagnostics.DebounceMS = v
	}
	if v := os.Getenv("LIVEMARK_THUMBNAIL_DIR"); v != "" {
		c.Thumbnails.Dir = v
	}
	if v, ok := envInt("LIVEMARK_THUMBNAIL_SIZE_PX"); ok {
		c.Thumbnails.TargetSizePX = v
	}
	if v := os.Getenv("LIVEMARK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks configured values against their allowed ranges.
func (c *Config) Validate() error {
	if c.Preview.RenderDebounceMS < 0 || c.Preview.RenderDebounceMS > 10000 {
		return fmt.Errorf("preview.render_debounce_ms %d out of range [0, 10000]", c.Preview.RenderDebounceMS)
	}
	if c.Preview.HighlightDecayMS < 0 || c.Preview.HighlightDecayMS > 60000 {
		return fmt.Errorf("preview.highlight_decay_ms %d out of range [0, 60000]", c.Preview.HighlightDecayMS)
	}
	if c.Diagnostics.DebounceMS < 0 || c.Diagnostics.DebounceMS > 10000 {
		return fmt.Errorf("diagnostics.debounce_ms %d out of range [0, 10000]", c.Diagnostics.DebounceMS)
	}
	if c.Thumbnails.TargetSizePX < 16 || c.Thumbnails.TargetSizePX > 1024 {
		return fmt.Errorf("thumbnails.target_size_px %d out of range [16, 1024]", c.Thumbnails.TargetSizePX)
	}
	return nil
}

// RenderDebounce returns the render debounce window as a duration.
func (c *Config) RenderDebounce() time.Duration {
	return time.Duration(c.Preview.RenderDebounceMS) * time.Millisecond
}

// DiagnosticsDebounce returns the validation debounce window as a duration.
func (c *Config) DiagnosticsDebounce() time.Duration {
	return time.Duration(c.Diagnostics.DebounceMS) * time.Millisecond
}

// HighlightDecay returns the highlight decay window as a duration.
func (c *Config) HighlightDecay() time.Duration {
	return time.Duration(c.Preview.HighlightDecayMS) * time.Millisecond
}
