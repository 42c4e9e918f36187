/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the thetacapture command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	endpoint   string
	model      string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "thetacapture",
	Short: "Run long captures on a RICOH THETA camera",
	Long: `thetacapture starts interval, multi-bracket, time-shift and shot-count captures
on a camera reachable over its web API, follows them to completion and prints the
captured file URLs. Progress notifications can come from the camera itself or from
a NATS or WebSocket bridge.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Camera endpoint, overrides the config")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Camera model, e.g. \"RICOH THETA X\"")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, newStyles().error.Render(err.Error()))
		os.Exit(1)
	}
}
