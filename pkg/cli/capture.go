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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carverauto/thetacapture/pkg/capture"
	"github.com/carverauto/thetacapture/pkg/osc"
)

var (
	captureInterval int
	captureCount    int
	checkInterval   time.Duration
	runFor          time.Duration
	bracketISO      []int
	bracketEV       []float64
	frontFirst      bool
	firstInterval   int
	secondInterval  int
)

var intervalCmd = &cobra.Command{
	Use:   "interval",
	Short: "Shoot at a fixed interval until stopped",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			s, err := a.repo.NewIntervalBuilder().
				SetCaptureInterval(captureInterval).
				SetCheckStatusCommandInterval(checkInterval).
				Build(ctx)
			if err != nil {
				return err
			}

			return runSession(ctx, cmd.OutOrStdout(), s, runFor, printURLs)
		})
	},
}

var shotCountCmd = &cobra.Command{
	Use:   "shot-count",
	Short: "Shoot a fixed number of frames at an interval",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			s, err := a.repo.NewShotCountIntervalBuilder(captureCount).
				SetCaptureInterval(captureInterval).
				SetCheckStatusCommandInterval(checkInterval).
				Build(ctx)
			if err != nil {
				return err
			}

			return runSession(ctx, cmd.OutOrStdout(), s, runFor, printURLs)
		})
	},
}

var bracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Take one frame per bracket setting",
	Long: `bracket takes one frame per bracket. Brackets are given either as a list of ISO
values (--iso 100,400,1600) or as exposure compensation steps (--ev -1,0,1).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := bracketSettings(bracketISO, bracketEV)
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			s, err := a.repo.NewMultiBracketBuilder().
				SetBracketSettings(settings).
				SetCheckStatusCommandInterval(checkInterval).
				Build(ctx)
			if err != nil {
				return err
			}

			return runSession(ctx, cmd.OutOrStdout(), s, runFor, printURLs)
		})
	},
}

var timeShiftCmd = &cobra.Command{
	Use:   "timeshift",
	Short: "Shoot each lens in turn so the photographer can leave the frame",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			b := a.repo.NewTimeShiftBuilder().
				SetIsFrontFirst(frontFirst).
				SetCheckStatusCommandInterval(checkInterval)

			if cmd.Flags().Changed("first") {
				b.SetFirstInterval(osc.TimeShiftInterval(firstInterval))
			}

			if cmd.Flags().Changed("second") {
				b.SetSecondInterval(osc.TimeShiftInterval(secondInterval))
			}

			s, err := b.Build(ctx)
			if err != nil {
				return err
			}

			return runSession(ctx, cmd.OutOrStdout(), s, runFor, printURL)
		})
	},
}

var errNoBrackets = errors.New("either --iso or --ev is required")

func init() {
	for _, c := range []*cobra.Command{intervalCmd, shotCountCmd, bracketCmd, timeShiftCmd} {
		c.Flags().DurationVar(&checkInterval, "check-interval", 0, "How often to check capture status (default from config)")
		c.Flags().DurationVar(&runFor, "for", 0, "Stop the capture after this long (0 waits for the camera)")
		rootCmd.AddCommand(c)
	}

	intervalCmd.Flags().IntVar(&captureInterval, "interval", 0, "Seconds between shots")
	shotCountCmd.Flags().IntVar(&captureInterval, "interval", 0, "Seconds between shots")
	shotCountCmd.Flags().IntVar(&captureCount, "count", 2, "Number of shots")
	bracketCmd.Flags().IntSliceVar(&bracketISO, "iso", nil, "ISO value per bracket")
	bracketCmd.Flags().Float64SliceVar(&bracketEV, "ev", nil, "Exposure compensation per bracket")
	timeShiftCmd.Flags().BoolVar(&frontFirst, "front", true, "Shoot the front lens first")
	timeShiftCmd.Flags().IntVar(&firstInterval, "first", 5, "Seconds before the first lens shoots")
	timeShiftCmd.Flags().IntVar(&secondInterval, "second", 5, "Seconds between the two lenses")
}

func bracketSettings(isos []int, evs []float64) ([]osc.BracketSetting, error) {
	var settings []osc.BracketSetting

	for _, iso := range isos {
		settings = append(settings, osc.BracketSetting{
			ExposureProgram: osc.Ptr(osc.ExposureProgramISOPriority),
			ISO:             osc.Ptr(iso),
		})
	}

	for _, ev := range evs {
		settings = append(settings, osc.BracketSetting{
			ExposureProgram:      osc.Ptr(osc.ExposureProgramNormal),
			ExposureCompensation: osc.Ptr(ev),
		})
	}

	if len(settings) == 0 {
		return nil, errNoBrackets
	}

	return settings, nil
}

// withApp wires the app for one command and stops it afterwards. The
// context ends on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}

// runSession starts s and waits for it. An interrupt or the --for deadline
// cancels the capture on the camera and still waits for its result.
func runSession[R any](ctx context.Context, w io.Writer, s *capture.Session[R], limit time.Duration, show func(io.Writer, styles, R)) error {
	st := newStyles()

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%s capture", s.Kind())))

	type outcome struct {
		result R
		err    error
	}

	done := make(chan outcome, 1)

	// the capture outlives ctx so that a cancelled run can still collect files
	runCtx := context.WithoutCancel(ctx)

	go func() {
		r, err := s.Start(runCtx, capture.Handlers{
			OnProgress: func(c float64) {
				fmt.Fprintf(w, "\r%s %3.0f%%", st.bar(c), c*100)
			},
			OnStopError: func(err error) {
				fmt.Fprintln(w, st.warn("stop failed: "+err.Error()))
			},
		})
		done <- outcome{result: r, err: err}
	}()

	var deadline <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()

		deadline = timer.C
	}

	interrupted := ctx.Done()

	for {
		select {
		case out := <-done:
			fmt.Fprintln(w)

			if out.err != nil {
				return out.err
			}

			show(w, st, out.result)

			return nil
		case <-interrupted:
			interrupted = nil
			fmt.Fprintln(w, st.hint.Render("\nstopping capture..."))
			_ = s.Cancel(runCtx)
		case <-deadline:
			deadline = nil
			fmt.Fprintln(w, st.hint.Render("\ntime limit reached, stopping capture..."))
			_ = s.Cancel(runCtx)
		}
	}
}

func printURLs(w io.Writer, st styles, urls []string) {
	if len(urls) == 0 {
		fmt.Fprintln(w, st.hint.Render("no files reported"))
		return
	}

	fmt.Fprintln(w, st.success.Render(fmt.Sprintf("%d file(s)", len(urls))))

	for _, u := range urls {
		fmt.Fprintln(w, st.file.Render(u))
	}
}

func printURL(w io.Writer, st styles, url string) {
	if url == "" {
		printURLs(w, st, nil)
		return
	}

	printURLs(w, st, []string{url})
}
