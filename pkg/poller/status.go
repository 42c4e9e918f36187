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

package poller

import (
	"context"

	"github.com/carverauto/thetacapture/pkg/logger"
)

// DeviceStatus is a coarse capture state derived from /osc/state.
type DeviceStatus int

const (
	StatusUnknown DeviceStatus = iota
	StatusIdle
	StatusShooting
)

func (s DeviceStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusShooting:
		return "shooting"
	default:
		return "unknown"
	}
}

// shootingStates are the "_captureStatus" values reported while a capture
// is still running.
var shootingStates = map[string]struct{}{
	"shooting":                      {},
	"self-timer countdown":          {},
	"bracket shooting":              {},
	"converting":                    {},
	"timeShift shooting":            {},
	"continuous shooting":           {},
	"retrospective image recording": {},
	"burst shooting":                {},
	"in-progress interval shooting": {},
}

// ParseCaptureStatus maps a raw "_captureStatus" value to a DeviceStatus.
func ParseCaptureStatus(raw string) DeviceStatus {
	if raw == "idle" {
		return StatusIdle
	}

	if _, ok := shootingStates[raw]; ok {
		return StatusShooting
	}

	return StatusUnknown
}

// StatusPoller queries the camera state through a RetryPolicy.
type StatusPoller struct {
	fetcher StateFetcher
	policy  RetryPolicy
	clock   Clock
	logger  logger.Logger
}

var _ StatusSource = (*StatusPoller)(nil)

// NewStatusPoller creates a poller. A nil clock uses the real clock.
func NewStatusPoller(fetcher StateFetcher, policy RetryPolicy, clock Clock, log logger.Logger) *StatusPoller {
	if clock == nil {
		clock = RealClock{}
	}

	return &StatusPoller{
		fetcher: fetcher,
		policy:  policy,
		clock:   clock,
		logger:  log,
	}
}

// Poll returns the current status, or false once the retry budget is spent.
// A false result is final for the caller and must not be retried.
func (p *StatusPoller) Poll(ctx context.Context) (DeviceStatus, bool) {
	status := StatusUnknown

	err := p.policy.Do(ctx, p.clock, func(ctx context.Context, attempt int) error {
		resp, err := p.fetcher.State(ctx)
		if err != nil {
			p.logger.Debug().Err(err).Int("attempt", attempt).Msg("Capture status query failed")

			return err
		}

		status = ParseCaptureStatus(resp.State.CaptureStatus)

		return nil
	})
	if err != nil {
		p.logger.Warn().Err(err).Msg("Capture status unavailable")

		return StatusUnknown, false
	}

	return status, true
}
