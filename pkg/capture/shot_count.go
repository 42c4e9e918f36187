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

package capture

import (
	"context"
	"fmt"

	"github.com/carverauto/thetacapture/pkg/osc"
)

const (
	minShotCount = 2
	maxShotCount = 9999
)

// ShotCountIntervalBuilder configures an interval capture that stops by
// itself after a fixed number of shots.
type ShotCountIntervalBuilder struct {
	Builder[ShotCountIntervalBuilder]
	captureNumber int
	interval      *int
}

// SetCaptureInterval sets the seconds between shots.
func (b *ShotCountIntervalBuilder) SetCaptureInterval(seconds int) *ShotCountIntervalBuilder {
	b.interval = osc.Ptr(seconds)
	return b
}

// SetCaptureNumber sets how many shots are taken.
func (b *ShotCountIntervalBuilder) SetCaptureNumber(n int) *ShotCountIntervalBuilder {
	b.captureNumber = n
	return b
}

// Build commits the options and returns a session.
func (b *ShotCountIntervalBuilder) Build(ctx context.Context) (*Session[[]string], error) {
	if b.captureNumber < minShotCount || b.captureNumber > maxShotCount {
		return nil, fmt.Errorf("%w: capture number %d not in [%d, %d]",
			ErrInvalidOptions, b.captureNumber, minShotCount, maxShotCount)
	}

	if b.interval != nil && *b.interval < 0 {
		return nil, fmt.Errorf("%w: capture interval %d", ErrInvalidOptions, *b.interval)
	}

	opts := b.options.Clone()
	opts.CaptureNumber = osc.Ptr(b.captureNumber)
	opts.CaptureInterval = b.interval

	if b.repo.model == osc.ModelThetaX {
		opts.ShootingMethod = osc.Ptr(osc.ShootingMethodInterval)
	}

	if err := b.commit(ctx, KindShotCountInterval, opts); err != nil {
		return nil, err
	}

	return newSession(b.repo, KindShotCountInterval, strategyEvent, b.config(opts),
		startParams(b.repo.model, osc.ShootingModeInterval), allURLs), nil
}
