// Package config loads and validates the promptvision configuration.
//
// Every field has a default, so running without a file is valid. A YAML file
// overrides the defaults it names and supports ${VAR:-default} expansion.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/promptvision/internal/logging"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "PROMPTVISION_CONFIG"
	EnvLogLevel   = "PROMPTVISION_LOG_LEVEL"
)

// Preset store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config is the root configuration.
type Config struct {
	Log      logging.Config `yaml:"log"`
	Presets  PresetsConfig  `yaml:"presets"`
	Activity ActivityConfig `yaml:"activity"`
	History  HistoryConfig  `yaml:"history"`
	Export   ExportConfig   `yaml:"export"`
}

// PresetsConfig selects where named presets are stored.
type PresetsConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`    // File for either backend
}

// ActivityConfig bounds the activity log.
type ActivityConfig struct {
	Capacity int `yaml:"capacity"`
}

// HistoryConfig bounds the undo stack. Zero means unlimited.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// ExportConfig controls image export.
type ExportConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: logging.Config{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Presets: PresetsConfig{
			Backend: BackendJSON,
			Path:    "presets.json",
		},
		Activity: ActivityConfig{Capacity: 100},
		History:  HistoryConfig{Limit: 0},
		Export:   ExportConfig{JPEGQuality: 95},
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults expands ${VAR} and ${VAR:-default}.
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})
}

// Load reads configuration from path. An empty path uses the file named by
// PROMPTVISION_CONFIG, or the defaults when that is unset too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML over the defaults, applies environment overrides
// and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format: %q (must be json or console)", c.Log.Format)
	}

	switch c.Presets.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid presets.backend: %q (must be json or sqlite)", c.Presets.Backend)
	}
	if c.Presets.Path == "" {
		return fmt.Errorf("presets.path is required")
	}

	if c.Activity.Capacity < 1 {
		return fmt.Errorf("invalid activity.capacity: %d (must be at least 1)", c.Activity.Capacity)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("invalid history.limit: %d (must be 0 or more)", c.History.Limit)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("invalid export.jpeg_quality: %d (must be 1-100)", c.Export.JPEGQuality)
	}
	return nil
}
