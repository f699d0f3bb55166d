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

package sidecar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script and returns its path.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// waitDone fails the test if the handle's done channel does not close in time.
func waitDone(t *testing.T, h *Handle, timeout time.Duration) {
	t.Helper()

	select {
	case <-h.Done():
	case <-time.After(timeout):
		t.Fatalf("process %d did not exit within %v", h.PID, timeout)
	}
}

func TestSpawn(t *testing.T) {
	t.Run("returns a live handle with captured streams", func(t *testing.T) {
		path := writeScript(t, "app-backend", "sleep 60")

		h, err := NewSpawner().Spawn(path)
		require.NoError(t, err)
		defer h.Kill()

		assert.Greater(t, h.PID, 0)
		assert.NotEmpty(t, h.LaunchID)
		assert.NotNil(t, h.Stdout)
		assert.NotNil(t, h.Stderr)

		require.NoError(t, h.Kill())
		waitDone(t, h, 5*time.Second)
	})

	t.Run("done closes when the child exits on its own", func(t *testing.T) {
		path := writeScript(t, "app-backend", "exit 0")

		h, err := NewSpawner().Spawn(path)
		require.NoError(t, err)

		waitDone(t, h, 5*time.Second)
	})

	t.Run("spawn failure is reported synchronously", func(t *testing.T) {
		// Present but not executable.
		path := filepath.Join(t.TempDir(), "app-backend")
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

		h, err := NewSpawner().Spawn(path)
		assert.Nil(t, h)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSpawnFailed)

		var se *SpawnError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, path, se.Path)
	})

	t.Run("missing executable fails", func(t *testing.T) {
		_, err := NewSpawner().Spawn(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrSpawnFailed)
	})
}

func TestHandleTerminate(t *testing.T) {
	path := writeScript(t, "app-backend", "sleep 60")

	h, err := NewSpawner().Spawn(path)
	require.NoError(t, err)

	require.NoError(t, h.Terminate())
	waitDone(t, h, 5*time.Second)
}

func TestHandleTerminate_AfterExit(t *testing.T) {
	path := writeScript(t, "app-backend", "exit 0")

	h, err := NewSpawner().Spawn(path)
	require.NoError(t, err)
	waitDone(t, h, 5*time.Second)

	// The child is gone and reaped; signalling it fails but must not panic.
	assert.ErrorIs(t, h.Terminate(), os.ErrProcessDone)
}
