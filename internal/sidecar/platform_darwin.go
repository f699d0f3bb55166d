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

//go:build darwin

package sidecar

import (
	"os"
	"syscall"
)

// DefaultBinaryName is the expected backend executable name on this platform.
const DefaultBinaryName = "nautilus-backend-x86_64-apple-darwin"

// sysProcAttr returns process creation attributes for the backend child.
// No special attributes are needed outside Windows.
func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// terminate asks the process to exit.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
