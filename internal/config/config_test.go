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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/nautilus/internal/sidecar"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearEnv unsets all NAUTILUS_* overrides for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"NAUTILUS_LOG_LEVEL", "NAUTILUS_LOG_FORMAT",
		"NAUTILUS_SIDECAR", "NAUTILUS_SIDECAR_ENABLED",
		"NAUTILUS_RESOURCE_DIR", "NAUTILUS_GRACE_DELAY",
		"NAUTILUS_SHUTDOWN_TIMEOUT", "NAUTILUS_METRICS_LISTEN",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Sidecar.Enabled)
	assert.Equal(t, sidecar.DefaultGraceDelay, cfg.Sidecar.GraceDelay)
	assert.Equal(t, sidecar.DefaultShutdownTimeout, cfg.Sidecar.ShutdownTimeout)
	assert.Empty(t, cfg.Metrics.Listen)
}

func TestLoad_FileOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
log:
  level: debug
  format: json
sidecar:
  enabled: false
  name: app-backend
  resource_dir: /opt/nautilus/resources
  dev_subdir: src-app
metrics:
  listen: 127.0.0.1:9300
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Sidecar.Enabled)
	assert.Equal(t, "app-backend", cfg.Sidecar.Name)
	assert.Equal(t, "/opt/nautilus/resources", cfg.Sidecar.ResourceDir)
	assert.Equal(t, "src-app", cfg.Sidecar.DevSubdir)
	assert.Equal(t, "127.0.0.1:9300", cfg.Metrics.Listen)

	// Unspecified fields keep their defaults.
	assert.Equal(t, sidecar.DefaultGraceDelay, cfg.Sidecar.GraceDelay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "log:\n  level: info\n")

	t.Setenv("NAUTILUS_LOG_LEVEL", "ERROR")
	t.Setenv("NAUTILUS_SIDECAR", "custom-backend")
	t.Setenv("NAUTILUS_SIDECAR_ENABLED", "false")
	t.Setenv("NAUTILUS_GRACE_DELAY", "250ms")
	t.Setenv("NAUTILUS_SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("NAUTILUS_METRICS_LISTEN", "127.0.0.1:9301")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "custom-backend", cfg.Sidecar.Name)
	assert.False(t, cfg.Sidecar.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Sidecar.GraceDelay)
	assert.Equal(t, 10*time.Second, cfg.Sidecar.ShutdownTimeout)
	assert.Equal(t, "127.0.0.1:9301", cfg.Metrics.Listen)
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "log: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty level and format are valid", func(c *Config) {
			c.Log.Level = ""
			c.Log.Format = ""
		}, false},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative grace delay", func(c *Config) { c.Sidecar.GraceDelay = -time.Second }, true},
		{"negative shutdown timeout", func(c *Config) { c.Sidecar.ShutdownTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
