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
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func spawnSleeper(t *testing.T) *Handle {
	t.Helper()

	h, err := NewSpawner().Spawn(writeScript(t, "app-backend", "sleep 60"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Kill() })
	return h
}

func TestStore_RegisterAndTake(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Active())

	h := spawnSleeper(t)
	assert.Nil(t, store.Register(h))
	assert.True(t, store.Active())

	taken := store.TakeAndTerminate(discardLogger())
	assert.Same(t, h, taken)
	assert.False(t, store.Active())

	waitDone(t, h, 5*time.Second)
}

func TestStore_TakeOnEmptyIsNoOp(t *testing.T) {
	store := NewStore()

	assert.Nil(t, store.TakeAndTerminate(discardLogger()))
}

func TestStore_SecondTakeIsNoOp(t *testing.T) {
	store := NewStore()
	store.Register(spawnSleeper(t))

	first := store.TakeAndTerminate(discardLogger())
	require.NotNil(t, first)

	// No handle left, so no second termination attempt is made.
	assert.Nil(t, store.TakeAndTerminate(discardLogger()))
	assert.False(t, store.Active())
}

func TestStore_RegisterReturnsDisplacedHandle(t *testing.T) {
	store := NewStore()

	first := spawnSleeper(t)
	second := spawnSleeper(t)

	assert.Nil(t, store.Register(first))
	assert.Same(t, first, store.Register(second))
	assert.True(t, store.Active())
}

func TestStore_TerminationFailureIsLoggedNotFatal(t *testing.T) {
	store := NewStore()

	h, err := NewSpawner().Spawn(writeScript(t, "app-backend", "exit 0"))
	require.NoError(t, err)
	store.Register(h)

	// Let the child exit and be reaped so the terminate signal fails.
	waitDone(t, h, 5*time.Second)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	taken := store.TakeAndTerminate(logger)
	assert.Same(t, h, taken)
	assert.False(t, store.Active())
	assert.Contains(t, buf.String(), "failed to signal backend sidecar")
}
