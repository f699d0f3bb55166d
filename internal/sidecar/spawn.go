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
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"
)

// Handle tracks a running backend process. Once registered in a Store the
// store owns it; no other component should keep a long-lived reference.
type Handle struct {
	// LaunchID identifies this launch in log entries.
	LaunchID string

	// PID is the operating system process identifier.
	PID int

	// Stdout and Stderr are the child's captured output streams. They are
	// piped rather than inherited so backend output never reaches the host
	// UI; nothing reads them today, but they are available for draining.
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	cmd  *exec.Cmd
	done chan struct{}
}

// Done is closed once the child process has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Terminate asks the child to exit. On Unix this sends SIGTERM; on Windows
// the process is killed outright.
func (h *Handle) Terminate() error {
	return terminate(h.cmd.Process)
}

// Kill forcefully ends the child.
func (h *Handle) Kill() error {
	return h.cmd.Process.Kill()
}

// Spawner starts the backend executable as a child process.
type Spawner struct {
	// Env is the environment passed to the child process.
	Env []string
}

// NewSpawner creates a spawner that passes through the host environment.
func NewSpawner() *Spawner {
	return &Spawner{
		Env: os.Environ(),
	}
}

// Spawn starts the executable at path with captured output streams and
// platform spawn attributes. Failures are reported synchronously as a
// *SpawnError.
//
// Each successful spawn starts a reaper goroutine that waits on the child
// and closes the handle's done channel, so the child never lingers as a
// zombie and exit can be observed without polling.
func (s *Spawner) Spawn(path string) (*Handle, error) {
	cmd := exec.Command(path)
	cmd.Env = s.Env
	cmd.Stdin = nil
	cmd.SysProcAttr = sysProcAttr()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	h := &Handle{
		LaunchID: uuid.NewString(),
		PID:      cmd.Process.Pid,
		Stdout:   stdout,
		Stderr:   stderr,
		cmd:      cmd,
		done:     make(chan struct{}),
	}

	go func() {
		// Wait discards any unread pipe output; the streams are captured
		// for diagnostics, not consumed.
		_ = cmd.Wait()
		close(h.done)
	}()

	return h, nil
}
