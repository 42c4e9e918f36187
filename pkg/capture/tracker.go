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
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
	"github.com/carverauto/thetacapture/pkg/poller"
)

const (
	msgInvalidResults = "invalid capture results"
	msgCaptureFailed  = "capture failed"
)

// commandTracker follows an in-progress command through
// /osc/commands/status and publishes what it sees as notifications
// addressed to the owning session.
type commandTracker struct {
	gateway  osc.Gateway
	clock    poller.Clock
	policy   poller.RetryPolicy
	interval time.Duration
	names    notify.Names
	owner    uuid.UUID
	publish  func(notify.Event)
	logger   logger.Logger
}

func newCommandTracker(repo *Repository, names notify.Names, owner uuid.UUID, interval time.Duration, log logger.Logger) *commandTracker {
	return &commandTracker{
		gateway:  repo.gateway,
		clock:    repo.clock,
		policy:   repo.poll.RetryPolicy(),
		interval: interval,
		names:    names,
		owner:    owner,
		publish:  repo.relay.Publish,
		logger:   log,
	}
}

// run checks the command every interval until it is done, fails, or done is
// closed, and returns the outcome it observed. The same outcome is published
// as a COMPLETED or FAILED notification first.
func (t *commandTracker) run(ctx context.Context, id string, done <-chan struct{}) ([]string, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
			return nil, nil
		case <-t.clock.After(t.interval):
		}

		var resp *osc.CommandResponse

		err := t.policy.Do(ctx, t.clock, func(ctx context.Context, attempt int) error {
			r, err := t.gateway.Status(ctx, id)
			if err != nil {
				t.logger.Debug().Err(err).Str("command", id).Int("attempt", attempt).Msg("Command status query failed")

				return err
			}

			resp = r

			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			return nil, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
		}

		if urls, finished, err := t.observe(resp); finished {
			return urls, err
		}
	}
}

func (t *commandTracker) observe(resp *osc.CommandResponse) ([]string, bool, error) {
	switch resp.State {
	case osc.StateInProgress:
		if resp.Progress != nil {
			t.emit(notify.Progress(t.names.Progress, resp.Progress.Completion))
		}

		return nil, false, nil
	case osc.StateDone:
		urls, err := resp.FileURLs()
		if err != nil {
			t.logger.Warn().Err(err).Msg("Unreadable capture results")
			t.emit(notify.Message(t.names.Failed, msgInvalidResults))

			return nil, true, &osc.WebAPIError{Message: msgInvalidResults}
		}

		t.emit(notify.Files(t.names.Completed, urls))

		return urls, true, nil
	default:
		msg := msgCaptureFailed
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}

		t.emit(notify.Message(t.names.Failed, msg))

		return nil, true, &osc.WebAPIError{Message: msg}
	}
}

func (t *commandTracker) emit(e notify.Event) {
	t.publish(e.For(t.owner))
}
