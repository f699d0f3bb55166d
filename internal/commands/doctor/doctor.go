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

// Package doctor implements the doctor command, which diagnoses the sidecar
// installation without running the host.
package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/nautilus/internal/config"
	"github.com/tombee/nautilus/internal/sidecar"
)

// NewCommand creates the doctor command.
func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the backend sidecar installation",
		Long: `Report where the backend executable is looked for, whether it was
found, and whether sidecar processes from a previous host run are still
alive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

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

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Backend executable: %s\n\n", loc.Name)
	fmt.Fprintln(out, "Candidate locations:")
	for _, path := range loc.Candidates() {
		mark := "absent"
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			mark = "found"
		}
		fmt.Fprintf(out, "  [%s] %s\n", mark, path)
	}

	path, err := loc.Resolve()
	if err != nil {
		fmt.Fprintf(out, "\nResolution: FAILED (%v)\n", err)
	} else {
		fmt.Fprintf(out, "\nResolution: %s\n", path)
	}

	pids, err := sidecar.FindOrphans(loc.Name)
	if err != nil {
		fmt.Fprintf(out, "Orphan scan failed: %v\n", err)
		return nil
	}
	if len(pids) == 0 {
		fmt.Fprintln(out, "No orphaned sidecar processes.")
	} else {
		fmt.Fprintf(out, "Orphaned sidecar processes: %v\n", pids)
	}

	return nil
}
