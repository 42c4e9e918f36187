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

const maxTimeShiftInterval = 10

// TimeShiftBuilder configures a capture that shoots one lens after the
// other so the photographer can leave each half of the frame.
type TimeShiftBuilder struct {
	Builder[TimeShiftBuilder]
	setting *osc.TimeShiftSetting
}

func (b *TimeShiftBuilder) timeShift() *osc.TimeShiftSetting {
	if b.setting == nil {
		b.setting = &osc.TimeShiftSetting{}
	}

	return b.setting
}

// SetIsFrontFirst selects which lens shoots first.
func (b *TimeShiftBuilder) SetIsFrontFirst(front bool) *TimeShiftBuilder {
	if front {
		b.timeShift().FirstShooting = osc.FirstShootingFront
	} else {
		b.timeShift().FirstShooting = osc.FirstShootingRear
	}

	return b
}

// SetFirstInterval sets the seconds before the first lens shoots.
func (b *TimeShiftBuilder) SetFirstInterval(interval osc.TimeShiftInterval) *TimeShiftBuilder {
	b.timeShift().FirstInterval = osc.Ptr(interval)
	return b
}

// SetSecondInterval sets the seconds between the first and second lens.
func (b *TimeShiftBuilder) SetSecondInterval(interval osc.TimeShiftInterval) *TimeShiftBuilder {
	b.timeShift().SecondInterval = osc.Ptr(interval)
	return b
}

// Build commits the options and returns a session resolving to the single
// stitched file.
func (b *TimeShiftBuilder) Build(ctx context.Context) (*Session[string], error) {
	if b.setting != nil {
		for _, iv := range []*osc.TimeShiftInterval{b.setting.FirstInterval, b.setting.SecondInterval} {
			if iv != nil && (*iv < 0 || *iv > maxTimeShiftInterval) {
				return nil, fmt.Errorf("%w: time-shift interval %d not in [0, %d]",
					ErrInvalidOptions, *iv, maxTimeShiftInterval)
			}
		}
	}

	opts := b.options.Clone()

	if b.setting != nil {
		ts := *b.setting
		opts.TimeShift = &ts
	}

	if b.repo.model == osc.ModelThetaX {
		opts.ShootingMethod = osc.Ptr(osc.ShootingMethodTimeShift)
	}

	if err := b.commit(ctx, KindTimeShift, opts); err != nil {
		return nil, err
	}

	return newSession(b.repo, KindTimeShift, strategyEvent, b.config(opts),
		startParams(b.repo.model, osc.ShootingModeTimeShift), firstURL), nil
}
