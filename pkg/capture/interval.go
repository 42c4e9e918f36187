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

// IntervalBuilder configures a limitless interval capture. The camera keeps
// shooting until it is stopped; completion is detected by polling.
type IntervalBuilder struct {
	Builder[IntervalBuilder]
	interval *int
}

// SetCaptureInterval sets the seconds between shots.
func (b *IntervalBuilder) SetCaptureInterval(seconds int) *IntervalBuilder {
	b.interval = osc.Ptr(seconds)
	return b
}

// Build commits the options and returns a session.
func (b *IntervalBuilder) Build(ctx context.Context) (*Session[[]string], error) {
	if b.interval != nil && *b.interval < 0 {
		return nil, fmt.Errorf("%w: capture interval %d", ErrInvalidOptions, *b.interval)
	}

	opts := b.options.Clone()
	opts.CaptureInterval = b.interval
	opts.CaptureNumber = osc.Ptr(0)

	if b.repo.model == osc.ModelThetaX {
		opts.ShootingMethod = osc.Ptr(osc.ShootingMethodInterval)
	}

	if err := b.commit(ctx, KindInterval, opts); err != nil {
		return nil, err
	}

	return newSession(b.repo, KindInterval, strategyPoll, b.config(opts),
		startParams(b.repo.model, osc.ShootingModeInterval), allURLs), nil
}
