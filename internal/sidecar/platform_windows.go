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

//go:build windows

package sidecar

import (
	"os"
	"syscall"
)

// DefaultBinaryName is the expected backend executable name on this platform.
const DefaultBinaryName = "nautilus-backend-x86_64-pc-windows-msvc.exe"

// createNoWindow prevents a console window from opening for the child.
const createNoWindow = 0x08000000

// sysProcAttr returns process creation attributes for the backend child.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: createNoWindow,
	}
}

// terminate asks the process to exit. Windows has no equivalent of SIGTERM
// for a windowless child, so termination is immediate.
func terminate(p *os.Process) error {
	return p.Kill()
}
