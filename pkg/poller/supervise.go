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
	"time"

	"github.com/carverauto/thetacapture/pkg/logger"
)

// IdleTracker counts consecutive idle observations. Some cameras report idle
// for a moment in the middle of an interval capture, so completion is only
// concluded after threshold idles in a row.
type IdleTracker struct {
	threshold int
	remaining int
}

// NewIdleTracker creates a tracker; thresholds below 1 are treated as 1.
func NewIdleTracker(threshold int) *IdleTracker {
	if threshold < 1 {
		threshold = 1
	}

	return &IdleTracker{threshold: threshold, remaining: threshold}
}

// Observe records one status and reports whether completion is confirmed.
func (t *IdleTracker) Observe(status DeviceStatus) bool {
	if status != StatusIdle {
		t.remaining = t.threshold
		return false
	}

	t.remaining--

	return t.remaining <= 0
}

// Supervisor drives the poll loop of a running capture.
type Supervisor struct {
	source        StatusSource
	clock         Clock
	interval      time.Duration
	idleThreshold int
	logger        logger.Logger
}

// NewSupervisor creates a Supervisor. A nil clock uses the real clock.
func NewSupervisor(source StatusSource, clock Clock, interval time.Duration, idleThreshold int, log logger.Logger) *Supervisor {
	if clock == nil {
		clock = RealClock{}
	}

	return &Supervisor{
		source:        source,
		clock:         clock,
		interval:      interval,
		idleThreshold: idleThreshold,
		logger:        log,
	}
}

// Run waits one interval, polls, and classifies until the capture is
// confirmed idle (nil), the status is unavailable (ErrStatusUnavailable),
// done is closed (nil) or ctx ends (ctx.Err()).
func (s *Supervisor) Run(ctx context.Context, done <-chan struct{}) error {
	tracker := NewIdleTracker(s.idleThreshold)

	for polls := 1; ; polls++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		case <-s.clock.After(s.interval):
		}

		status, ok := s.source.Poll(ctx)
		if !ok {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return ErrStatusUnavailable
		}

		s.logger.Debug().Str("status", status.String()).Int("poll", polls).Msg("Capture status")

		if tracker.Observe(status) {
			s.logger.Debug().Int("polls", polls).Msg("Capture idle confirmed")

			return nil
		}
	}
}
