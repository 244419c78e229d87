// Package config loads voxstorm configuration from TOML files and supports
// hot reloading of the file while the editor runs.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// HistoryConfig tunes the edit-history engine.
type HistoryConfig struct {
	// MaxStates bounds the number of retained undo groups. 0 keeps the
	// full history.
	MaxStates int `toml:"max_states"`

	// Compression selects the snapshot codec: "zlib" or "zstd".
	Compression string `toml:"compression"`
}

// LogConfig tunes logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// Config is the root configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxStates:   0,
			Compression: "zlib",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path, layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.History.Compression {
	case "", "zlib", "zstd":
	default:
		return fmt.Errorf("unknown history.compression %q", c.History.Compression)
	}
	if c.History.MaxStates < 0 {
		return fmt.Errorf("history.max_states must not be negative, got %d", c.History.MaxStates)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}
