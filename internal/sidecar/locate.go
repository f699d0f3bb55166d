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
)

// Locator resolves the on-disk location of the backend executable.
type Locator struct {
	// Name is the expected executable file name.
	// Default: DefaultBinaryName for the build platform.
	Name string

	// ResourceDir is the bundled-resources directory of a packaged install,
	// tried first. Default: <executable dir>/resources.
	ResourceDir string

	// WorkDir is the directory development layouts are resolved against.
	// Default: the current working directory.
	WorkDir string

	// DevSubdir is the project subdirectory tried last, for running the host
	// from the repository root. Default: "desktop".
	DevSubdir string
}

// NewLocator creates a locator with platform defaults filled in.
func NewLocator() *Locator {
	l := &Locator{
		Name:      DefaultBinaryName,
		DevSubdir: "desktop",
	}

	if exe, err := os.Executable(); err == nil {
		l.ResourceDir = filepath.Join(filepath.Dir(exe), "resources")
	}
	if wd, err := os.Getwd(); err == nil {
		l.WorkDir = wd
	}

	return l
}

// Candidates returns the paths probed by Resolve, in probe order.
func (l *Locator) Candidates() []string {
	var paths []string

	// Packaged install layout
	if l.ResourceDir != "" {
		paths = append(paths, filepath.Join(l.ResourceDir, "binaries", l.Name))
	}

	// Development layouts
	if l.WorkDir != "" {
		paths = append(paths, filepath.Join(l.WorkDir, "binaries", l.Name))
		if l.DevSubdir != "" {
			paths = append(paths, filepath.Join(l.WorkDir, l.DevSubdir, "binaries", l.Name))
		}
	}

	return paths
}

// Resolve returns the first candidate path that exists on disk.
// Existence is checked once, at resolution time; the file may still
// disappear before it is spawned.
func (l *Locator) Resolve() (string, error) {
	for _, path := range l.Candidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", &NotFoundError{Name: l.Name}
}
