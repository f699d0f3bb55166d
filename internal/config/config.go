// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the host configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/nautilus/internal/sidecar"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the complete host configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Sidecar SidecarConfig `yaml:"sidecar"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures host logging.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error).
	// Environment: NAUTILUS_LOG_LEVEL
	// Default: info
	Level string `yaml:"level,omitempty"`

	// Format sets the output format (json, text).
	// Environment: NAUTILUS_LOG_FORMAT
	// Default: text
	Format string `yaml:"format,omitempty"`
}

// SidecarConfig configures the backend sidecar lifecycle.
type SidecarConfig struct {
	// Enabled controls whether the host launches the backend sidecar at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Name overrides the platform-specific backend executable name.
	// Environment: NAUTILUS_SIDECAR
	Name string `yaml:"name,omitempty"`

	// ResourceDir overrides the packaged-install resources directory probed
	// first when locating the backend.
	// Environment: NAUTILUS_RESOURCE_DIR
	ResourceDir string `yaml:"resource_dir,omitempty"`

	// DevSubdir overrides the project subdirectory probed last when running
	// from a development checkout. Default: desktop
	DevSubdir string `yaml:"dev_subdir,omitempty"`

	// GraceDelay is the pause between launching the backend and showing the
	// window. Environment: NAUTILUS_GRACE_DELAY
	// Default: 1.5s
	GraceDelay time.Duration `yaml:"grace_delay,omitempty"`

	// ShutdownTimeout is how long a signalled backend may take to exit
	// before it is forcefully killed.
	// Environment: NAUTILUS_SHUTDOWN_TIMEOUT
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	// Listen is the address the /metrics endpoint is served on.
	// Environment: NAUTILUS_METRICS_LISTEN
	// Empty (the default) disables the listener.
	Listen string `yaml:"listen,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sidecar: SidecarConfig{
			Enabled:         true,
			GraceDelay:      sidecar.DefaultGraceDelay,
			ShutdownTimeout: sidecar.DefaultShutdownTimeout,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nautilus", "config.yaml")
}

// Load reads configuration from the given path, falling back to defaults,
// and applies environment overrides. An empty path means the default
// location, where a missing file is not an error; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case os.IsNotExist(err) && optional:
			// No config file is fine; defaults apply.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromEnv applies environment variable overrides.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("NAUTILUS_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("NAUTILUS_LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("NAUTILUS_SIDECAR"); val != "" {
		c.Sidecar.Name = val
	}
	if val := os.Getenv("NAUTILUS_SIDECAR_ENABLED"); val != "" {
		c.Sidecar.Enabled = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("NAUTILUS_RESOURCE_DIR"); val != "" {
		c.Sidecar.ResourceDir = val
	}
	if val := os.Getenv("NAUTILUS_GRACE_DELAY"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Sidecar.GraceDelay = duration
		}
	}
	if val := os.Getenv("NAUTILUS_SHUTDOWN_TIMEOUT"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Sidecar.ShutdownTimeout = duration
		}
	}
	if val := os.Getenv("NAUTILUS_METRICS_LISTEN"); val != "" {
		c.Metrics.Listen = val
	}
}

// Validate checks the configuration for values the host cannot run with.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}

	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	if c.Sidecar.GraceDelay < 0 {
		return fmt.Errorf("%w: grace_delay must not be negative", ErrInvalidConfig)
	}
	if c.Sidecar.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must not be negative", ErrInvalidConfig)
	}

	return nil
}
