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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sidecarLaunches tracks successful backend launches
	sidecarLaunches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nautilus_sidecar_launches_total",
			Help: "Total successful backend sidecar launches",
		},
	)

	// sidecarLaunchFailures tracks launches that never produced a process
	sidecarLaunchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nautilus_sidecar_launch_failures_total",
			Help: "Total backend sidecar launch failures by reason",
		},
		[]string{"reason"},
	)

	// sidecarTerminations tracks shutdown outcomes
	sidecarTerminations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nautilus_sidecar_terminations_total",
			Help: "Total backend sidecar terminations by outcome",
		},
		[]string{"outcome"},
	)

	// sidecarRunning tracks whether a backend is currently alive
	sidecarRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nautilus_sidecar_running",
			Help: "Whether a backend sidecar process is currently running",
		},
	)
)

// Launch failure reasons.
const (
	reasonNotFound    = "not_found"
	reasonSpawnFailed = "spawn_failed"
)

// Termination outcomes.
const (
	outcomeClean     = "clean"
	outcomeEscalated = "escalated"
	outcomeFailed    = "failed"
)

// recordLaunch increments the launch counter and marks the backend running
func recordLaunch() {
	sidecarLaunches.Inc()
	sidecarRunning.Set(1)
}

// recordLaunchFailure increments the failure counter
func recordLaunchFailure(reason string) {
	sidecarLaunchFailures.WithLabelValues(reason).Inc()
}

// recordTermination increments the termination counter and clears the gauge
func recordTermination(outcome string) {
	sidecarTerminations.WithLabelValues(outcome).Inc()
	if outcome != outcomeFailed {
		sidecarRunning.Set(0)
	}
}
