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

// Package run implements the run command, the host process itself.
package run

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tombee/nautilus/internal/config"
	"github.com/tombee/nautilus/internal/log"
	"github.com/tombee/nautilus/internal/sidecar"
	"github.com/tombee/nautilus/internal/window"
)

// NewCommand creates the run command.
func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Nautilus host",
		Long: `Run the Nautilus host: launch the bundled backend sidecar in the
background, show the window once the backend has had time to come up, and
terminate the backend when the window close is requested.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func runHost(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := log.New(&log.Config{
		Level:  cfg.Log.Level,
		Format: log.Format(cfg.Log.Format),
		Output: os.Stderr,
	})
	slog.SetDefault(logger)

	if cfg.Metrics.Listen != "" {
		go serveMetrics(cfg.Metrics.Listen, logger)
	}

	win := window.NewHeadless(logger)

	loc := sidecar.NewLocator()
	if cfg.Sidecar.Name != "" {
		loc.Name = cfg.Sidecar.Name
	}
	if cfg.Sidecar.ResourceDir != "" {
		loc.ResourceDir = cfg.Sidecar.ResourceDir
	}
	if cfg.Sidecar.DevSubdir != "" {
		loc.DevSubdir = cfg.Sidecar.DevSubdir
	}

	sup := sidecar.NewSupervisor(sidecar.Options{
		Locator:         loc,
		Window:          win,
		Logger:          logger,
		GraceDelay:      cfg.Sidecar.GraceDelay,
		ShutdownTimeout: cfg.Sidecar.ShutdownTimeout,
	})

	if cfg.Sidecar.Enabled {
		sup.Start()
	} else {
		logger.Info("backend sidecar disabled")
		win.Show()
	}

	// Without a GUI binding attached, SIGINT/SIGTERM stand in for the
	// window's close-requested event.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("window close requested")
	sup.CloseRequested()

	// Give the kill escalation a chance to finish before the host exits.
	if !sup.Drain(cfg.Sidecar.ShutdownTimeout + time.Second) {
		logger.Warn("exiting with backend teardown incomplete")
	}

	return nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("serving metrics", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics listener stopped", log.Error(err))
	}
}
