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
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// FindOrphans returns the PIDs of running processes that look like backend
// sidecars left behind by a previous host run (for example when a close
// raced a launch that was still in flight, or the host crashed before its
// shutdown hook fired).
func FindOrphans(name string) ([]int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var pids []int32
	for _, p := range procs {
		n, err := p.Name()
		if err != nil || n == "" {
			continue
		}
		if matchesSidecarName(name, n) {
			pids = append(pids, p.Pid)
		}
	}

	return pids, nil
}

// matchesSidecarName compares a process-table name against the expected
// executable name. Process names read from /proc are truncated to 15 bytes
// on Linux, so a long-enough prefix match is accepted.
func matchesSidecarName(want, got string) bool {
	if got == want {
		return true
	}
	return len(got) >= 15 && strings.HasPrefix(want, got)
}
