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

	"github.com/tombee/nautilus/internal/log"
)

// Store is the single-slot registry for the active backend handle. It is
// shared by reference between the launch path and the close path; the two
// serialize on the store's lock, so a close requested after registration
// always observes the registered handle.
//
// The lock is only ever held for slot access, never across process waits
// or I/O.
type Store struct {
	mu     sync.Mutex
	handle *Handle
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Register places the handle in the slot and returns the handle it
// displaced, if any. A single supervisor launches at most once per host
// run, so displacement indicates a supervision bug; callers should
// terminate the returned handle rather than leak it.
func (s *Store) Register(h *Handle) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.handle
	s.handle = h
	return prev
}

// Active reports whether the slot currently holds a handle.
func (s *Store) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.handle != nil
}

// TakeAndTerminate clears the slot and signals the process to exit,
// returning the taken handle so the caller can watch for actual exit.
// An empty slot is a no-op returning nil. Termination failures are
// logged, never returned: a child that refuses to die must not block
// host shutdown.
func (s *Store) TakeAndTerminate(logger *slog.Logger) *Handle {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()

	if h == nil {
		return nil
	}

	if err := h.Terminate(); err != nil {
		logger.Warn("failed to signal backend sidecar",
			log.Error(err),
			slog.Int(log.PIDKey, h.PID))
		return h
	}

	logger.Info("backend sidecar signalled to exit", slog.Int(log.PIDKey, h.PID))
	return h
}
