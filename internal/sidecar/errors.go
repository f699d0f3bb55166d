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
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the backend executable exists at none of
	// the candidate locations.
	ErrNotFound = errors.New("sidecar binary not found")

	// ErrSpawnFailed is returned when the operating system rejects process
	// creation for the backend executable.
	ErrSpawnFailed = errors.New("sidecar spawn failed")
)

// NotFoundError reports that the expected executable was absent from every
// candidate location. Name is the platform-specific file name, kept for
// diagnostics.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sidecar %s not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SpawnError reports that process creation failed for the resolved path.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start backend %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawnFailed
}
