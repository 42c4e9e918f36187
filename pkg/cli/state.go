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

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/thetacapture/pkg/poller"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the camera capture status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			resp, err := a.gateway.State(ctx)
			if err != nil {
				return err
			}

			st := newStyles()
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, st.title.Render(a.cfg.Endpoint))
			fmt.Fprintf(w, "capture status: %s (%s)\n",
				poller.ParseCaptureStatus(resp.State.CaptureStatus), resp.State.CaptureStatus)
			fmt.Fprintf(w, "battery:        %.0f%%\n", resp.State.BatteryLevel*100)

			if resp.State.LatestFileURL != "" {
				fmt.Fprintln(w, st.hint.Render("latest file: "+resp.State.LatestFileURL))
			}

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
