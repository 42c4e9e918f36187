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

// Package capture builds and runs long-running camera captures.
package capture

import (
	"context"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
	"github.com/carverauto/thetacapture/pkg/poller"
)

// RepositoryOption customises a Repository.
type RepositoryOption func(*Repository)

// WithModel sets the camera model. Some models select the shooting method
// through options rather than start parameters.
func WithModel(model osc.Model) RepositoryOption {
	return func(r *Repository) {
		r.model = model
	}
}

// WithPollConfig overrides the state polling settings.
func WithPollConfig(cfg poller.Config) RepositoryOption {
	return func(r *Repository) {
		r.poll = cfg
	}
}

// WithClock replaces the clock used for poll delays.
func WithClock(clock poller.Clock) RepositoryOption {
	return func(r *Repository) {
		r.clock = clock
	}
}

// Repository binds a camera gateway and a notification relay and hands out
// capture builders.
type Repository struct {
	gateway osc.Gateway
	relay   *notify.Relay
	model   osc.Model
	poll    poller.Config
	clock   poller.Clock
	logger  logger.Logger
}

// NewRepository creates a Repository. Invalid poll settings fall back to
// the defaults.
func NewRepository(gateway osc.Gateway, relay *notify.Relay, log logger.Logger, opts ...RepositoryOption) *Repository {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if relay == nil {
		relay = notify.NewRelay(nil, log)
	}

	r := &Repository{
		gateway: gateway,
		relay:   relay,
		poll:    poller.DefaultConfig(),
		clock:   poller.RealClock{},
		logger:  log,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if err := r.poll.Validate(); err != nil {
		r.logger.Warn().Err(err).Msg("Invalid poll config, using defaults")
		r.poll = poller.DefaultConfig()
	}

	return r
}

// Init subscribes the relay to its event source.
func (r *Repository) Init(ctx context.Context) error {
	return r.relay.Init(ctx)
}

// Close releases every relay registration and the source subscription.
func (r *Repository) Close() {
	r.relay.Release()
}

// Relay returns the shared notification relay.
func (r *Repository) Relay() *notify.Relay {
	return r.relay
}

// Model returns the configured camera model.
func (r *Repository) Model() osc.Model {
	return r.model
}

func (r *Repository) setOptions(ctx context.Context, opts osc.Options) error {
	resp, err := r.gateway.Execute(ctx, osc.CommandSetOptions, osc.SetOptionsParams{Options: opts})
	if err != nil {
		return err
	}

	if resp == nil {
		return nil
	}

	return resp.Err()
}

// NewIntervalBuilder starts an interval capture that runs until stopped.
func (r *Repository) NewIntervalBuilder() *IntervalBuilder {
	b := &IntervalBuilder{}
	b.init(b, r)

	return b
}

// NewShotCountIntervalBuilder starts an interval capture of captureNumber shots.
func (r *Repository) NewShotCountIntervalBuilder(captureNumber int) *ShotCountIntervalBuilder {
	b := &ShotCountIntervalBuilder{captureNumber: captureNumber}
	b.init(b, r)

	return b
}

// NewMultiBracketBuilder starts a multi-bracket capture.
func (r *Repository) NewMultiBracketBuilder() *MultiBracketBuilder {
	b := &MultiBracketBuilder{}
	b.init(b, r)

	return b
}

// NewTimeShiftBuilder starts a time-shift capture.
func (r *Repository) NewTimeShiftBuilder() *TimeShiftBuilder {
	b := &TimeShiftBuilder{}
	b.init(b, r)

	return b
}
