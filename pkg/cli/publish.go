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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/thetacapture/pkg/config"
	"github.com/carverauto/thetacapture/pkg/notify"
)

var (
	publishName       string
	publishCompletion float64
	publishMessage    string
	publishFiles      []string
)

var errPublishNeedsNATS = errors.New("publish requires events.source=nats")

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish one capture notification on the NATS subject",
	Long: `publish sends a notification the way a camera bridge would, which is useful for
exercising a running capture. The payload is chosen by the flags given: --completion
for progress, --message for stop errors and failures, --file for completions.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		if cfg.Events.Source != config.EventSourceNATS {
			return errPublishNeedsNATS
		}

		nc, err := notify.ConnectNATS(cfg.Events.NATSURL, nil)
		if err != nil {
			return err
		}
		defer nc.Close()

		var e notify.Event

		switch {
		case cmd.Flags().Changed("completion"):
			e = notify.Progress(publishName, publishCompletion)
		case publishMessage != "":
			e = notify.Message(publishName, publishMessage)
		default:
			e = notify.Files(publishName, publishFiles)
		}

		if err := notify.PublishEvent(nc, cfg.Events.Subject, e); err != nil {
			return err
		}

		if err := nc.FlushWithContext(cmd.Context()); err != nil {
			return fmt.Errorf("failed to flush NATS connection: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), newStyles().success.Render("published "+e.Name))

		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishName, "name", "", "Event name, e.g. MULTI-BRACKET-PROGRESS")
	publishCmd.Flags().Float64Var(&publishCompletion, "completion", 0, "Progress in [0,1]")
	publishCmd.Flags().StringVar(&publishMessage, "message", "", "Error message")
	publishCmd.Flags().StringSliceVar(&publishFiles, "file", nil, "Captured file URL")
	_ = publishCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(publishCmd)
}
