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

// Package window abstracts the host's window surface. The supervisor only
// needs the ability to show the window; rendering and layout belong to
// whatever GUI binding the host is built with.
package window

import (
	"log/slog"
	"sync"
)

// Headless is a window stand-in for running the host without a GUI binding
// attached: showing it just records visibility and logs.
type Headless struct {
	logger *slog.Logger

	mu      sync.Mutex
	visible bool
}

// NewHeadless creates a hidden headless window.
func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	return &Headless{logger: logger}
}

// Show makes the window visible.
func (w *Headless) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()

	w.logger.Info("window shown")
}

// Visible reports whether Show has been called.
func (w *Headless) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.visible
}
