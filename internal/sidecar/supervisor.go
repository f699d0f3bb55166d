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
	"log/slog"
	"sync"
	"time"

	"github.com/tombee/nautilus/internal/log"
)

// Window is the host surface whose visibility the supervisor gates. The
// concrete implementation lives with the host binary; the supervisor only
// ever shows it.
type Window interface {
	// Show makes the window visible.
	Show()
}

// State identifies where the supervisor is in the backend lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateLaunching    State = "launching"
	StateRunning      State = "running"
	StateLaunchFailed State = "launch_failed"
	StateShuttingDown State = "shutting_down"
	StateStopped      State = "stopped"
)

const (
	// DefaultGraceDelay is the pause between a successful launch and showing
	// the window, masking backend startup latency. It is a heuristic, not a
	// readiness check; no handshake with the backend is performed.
	DefaultGraceDelay = 1500 * time.Millisecond

	// DefaultShutdownTimeout is how long a signalled backend may take to
	// exit before it is forcefully killed.
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configures a Supervisor. Window is required; everything else
// defaults.
type Options struct {
	Locator *Locator
	Spawner *Spawner
	Store   *Store
	Window  Window
	Logger  *slog.Logger

	GraceDelay      time.Duration
	ShutdownTimeout time.Duration
}

// Supervisor orchestrates the backend lifecycle: locate, launch, register,
// delayed window show, and teardown on window close. Every failure it sees
// is logged and swallowed; the host window is shown no matter what.
type Supervisor struct {
	locator *Locator
	spawner *Spawner
	store   *Store
	window  Window
	logger  *slog.Logger

	graceDelay      time.Duration
	shutdownTimeout time.Duration

	mu    sync.Mutex
	state State

	startOnce sync.Once
	showOnce  sync.Once
	reaps     sync.WaitGroup
}

// NewSupervisor creates a supervisor from the given options.
func NewSupervisor(opts Options) *Supervisor {
	if opts.Locator == nil {
		opts.Locator = NewLocator()
	}
	if opts.Spawner == nil {
		opts.Spawner = NewSpawner()
	}
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.GraceDelay == 0 {
		opts.GraceDelay = DefaultGraceDelay
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	return &Supervisor{
		locator:         opts.Locator,
		spawner:         opts.Spawner,
		store:           opts.Store,
		window:          opts.Window,
		logger:          log.WithComponent(opts.Logger, "supervisor"),
		graceDelay:      opts.GraceDelay,
		shutdownTimeout: opts.ShutdownTimeout,
		state:           StateIdle,
	}
}

// State returns the supervisor's current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Start kicks off the locate-and-launch sequence on a background goroutine
// and returns immediately, so window creation is never blocked by spawn
// latency. Nothing awaits the sequence; its result is visible only through
// the store, the logs, and the eventual window show. Subsequent calls are
// no-ops.
func (s *Supervisor) Start() {
	s.startOnce.Do(func() {
		s.setState(StateLaunching)
		go s.launch()
	})
}

func (s *Supervisor) launch() {
	if pids, err := FindOrphans(s.locator.Name); err == nil && len(pids) > 0 {
		s.logger.Warn("backend sidecar processes from a previous run are still alive",
			slog.Any("pids", pids))
	}

	path, err := s.locator.Resolve()
	if err != nil {
		s.launchFailed(reasonNotFound, err)
		return
	}

	s.logger.Info("starting backend sidecar", slog.String(log.PathKey, path))

	h, err := s.spawner.Spawn(path)
	if err != nil {
		s.launchFailed(reasonSpawnFailed, err)
		return
	}

	recordLaunch()
	s.logger.Info("backend sidecar started",
		slog.String(log.LaunchIDKey, h.LaunchID),
		slog.Int(log.PIDKey, h.PID))

	if prev := s.store.Register(h); prev != nil {
		// At most one live handle may exist; displacement means a second
		// launch slipped through, so the displaced child is torn down.
		s.logger.Warn("displaced an already registered backend handle",
			slog.Int(log.PIDKey, prev.PID))
		_ = prev.Terminate()
	}
	s.setState(StateRunning)

	// Give the backend time to begin listening before the UI is reachable.
	time.Sleep(s.graceDelay)
	s.showOnce.Do(s.window.Show)
}

func (s *Supervisor) launchFailed(reason string, err error) {
	recordLaunchFailure(reason)
	s.logger.Error("failed to start backend sidecar", log.Error(err))
	s.setState(StateLaunchFailed)

	// The host stays usable without a backend.
	s.showOnce.Do(s.window.Show)
}

// CloseRequested handles the host window's close event. It signals the
// backend to exit and returns without awaiting it, so the close is never
// blocked by a stuck child; exit is watched on a detached goroutine that
// escalates to a forceful kill after the shutdown timeout.
func (s *Supervisor) CloseRequested() {
	s.setState(StateShuttingDown)

	if h := s.store.TakeAndTerminate(s.logger); h != nil {
		s.reaps.Add(1)
		go func() {
			defer s.reaps.Done()
			s.reapOrKill(h)
		}()
	}

	s.setState(StateStopped)
}

// Drain waits up to timeout for background teardown to finish, so a host
// about to exit does not abandon the kill escalation mid-flight. The close
// path itself never drains.
func (s *Supervisor) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.reaps.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// reapOrKill waits for a signalled child to exit, force-killing it once the
// shutdown timeout elapses.
func (s *Supervisor) reapOrKill(h *Handle) {
	logger := s.logger.With(
		slog.String(log.LaunchIDKey, h.LaunchID),
		slog.Int(log.PIDKey, h.PID))

	select {
	case <-h.Done():
		recordTermination(outcomeClean)
		logger.Info("backend sidecar terminated")
	case <-time.After(s.shutdownTimeout):
		logger.Warn("backend sidecar did not exit in time, killing")
		if err := h.Kill(); err != nil {
			recordTermination(outcomeFailed)
			logger.Warn("failed to kill backend sidecar", log.Error(err))
			return
		}
		<-h.Done()
		recordTermination(outcomeEscalated)
		logger.Info("backend sidecar killed")
	}
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
