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

/*
Package sidecar supervises the bundled nautilus-backend executable.

The host ships the backend as a separate executable and runs it as a child
process for the lifetime of the host window. This package provides binary
location, spawning, lifetime tracking, and termination, and coordinates that
lifecycle with the window's show/close events.

# Binary Location

The locator resolves the platform-specific executable name across packaged
and development layouts, first match wins:

	loc := sidecar.NewLocator()
	path, err := loc.Resolve()
	if err != nil {
	    // Backend is absent; the host window still opens.
	}

# Supervision

The supervisor runs the locate-and-launch sequence on a background goroutine
so window creation is never delayed by spawn latency, shows the window after a
grace delay, and tears the child down when the window close event fires:

	sup := sidecar.NewSupervisor(sidecar.Options{Window: win, Logger: logger})
	sup.Start()
	// ... host event loop ...
	sup.CloseRequested()

Every failure in this package is non-fatal to the host: a missing or broken
backend is logged and the window is shown regardless.
*/
package sidecar
