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
	minBracketSettings = 2
	maxBracketSettings = 13
)

// MultiBracketBuilder configures a capture taking one shot per bracket
// setting.
type MultiBracketBuilder struct {
	Builder[MultiBracketBuilder]
	settings []osc.BracketSetting
}

// SetBracketSettings replaces the bracket list.
func (b *MultiBracketBuilder) SetBracketSettings(settings []osc.BracketSetting) *MultiBracketBuilder {
	b.settings = append([]osc.BracketSetting(nil), settings...)
	return b
}

// AddBracketSetting appends one bracket.
func (b *MultiBracketBuilder) AddBracketSetting(setting osc.BracketSetting) *MultiBracketBuilder {
	b.settings = append(b.settings, setting)
	return b
}

// Build commits the options and returns a session.
func (b *MultiBracketBuilder) Build(ctx context.Context) (*Session[[]string], error) {
	if n := len(b.settings); n < minBracketSettings || n > maxBracketSettings {
		return nil, fmt.Errorf("%w: %d bracket settings, want %d to %d",
			ErrInvalidOptions, n, minBracketSettings, maxBracketSettings)
	}

	opts := b.options.Clone()
	opts.AutoBracket = &osc.AutoBracket{
		BracketNumber:     len(b.settings),
		BracketParameters: append([]osc.BracketSetting(nil), b.settings...),
	}

	if b.repo.model == osc.ModelThetaX {
		opts.ShootingMethod = osc.Ptr(osc.ShootingMethodBracket)
	}

	if err := b.commit(ctx, KindMultiBracket, opts); err != nil {
		return nil, err
	}

	return newSession(b.repo, KindMultiBracket, strategyEvent, b.config(opts),
		startParams(b.repo.model, osc.ShootingModeBracket), allURLs), nil
}
