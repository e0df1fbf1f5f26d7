// Package config loads the viewer's TOML configuration file. The file is
// optional; every field has a usable default so the app starts against a
// local service with no setup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig describes the remote trip analytics service.
type ServerConfig struct {
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`
	HeatmapLimit int    `toml:"heatmap_limit"`
}

// LogConfig controls structured logging in the non-GUI layers.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:      "http://127.0.0.1:8000",
			Timeout:      "15s",
			HeatmapLimit: 500,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults. A missing file is not an error;
// a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Server.BaseURL == "" {
		return cfg, fmt.Errorf("config %s: server.base_url must not be empty", path)
	}
	if cfg.Server.HeatmapLimit <= 0 {
		cfg.Server.HeatmapLimit = Default().Server.HeatmapLimit
	}
	return cfg, nil
}

// TimeoutDuration parses the request timeout, falling back to 15s on a
// malformed value.
func (s ServerConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
