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
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
	"github.com/carverauto/thetacapture/pkg/poller"
)

// Handlers are the optional callbacks of a running capture. Neither is
// called after the capture settled.
type Handlers struct {
	OnProgress  func(completion float64)
	OnStopError func(err error)
}

type sessionState int

const (
	stateBuilt sessionState = iota
	stateRunning
	stateSettled
)

// Session is one built capture. R is the result shape: a single file URL
// or a list of them.
type Session[R any] struct {
	kind     Kind
	names    notify.Names
	strategy strategy
	config   Config
	start    interface{}
	shape    func([]string) R

	repo   *Repository
	owner  uuid.UUID
	logger logger.Logger

	// cbMu is held while OnProgress runs and while the session settles, so
	// no progress callback is in flight once settlement completes.
	cbMu sync.Mutex

	mu       sync.Mutex
	state    sessionState
	handlers Handlers
	result   R
	err      error
	done     chan struct{}
	stopRun  context.CancelFunc
}

func newSession[R any](repo *Repository, kind Kind, strat strategy, cfg Config, start interface{}, shape func([]string) R) *Session[R] {
	owner := repo.relay.NewOwner()

	return &Session[R]{
		kind:     kind,
		names:    kind.Names(),
		strategy: strat,
		config:   cfg,
		start:    start,
		shape:    shape,
		repo:     repo,
		owner:    owner,
		logger: logger.Wrap(repo.logger.With().
			Str("kind", string(kind)).
			Str("session", owner.String()).
			Logger()),
		done: make(chan struct{}),
	}
}

// Kind returns the capture kind.
func (s *Session[R]) Kind() Kind { return s.kind }

// Config returns the committed configuration.
func (s *Session[R]) Config() Config {
	return Config{Options: s.config.Options.Clone(), CheckInterval: s.config.CheckInterval}
}

// Owner is the handle under which the session registers notification
// handlers.
func (s *Session[R]) Owner() uuid.UUID { return s.owner }

// Done is closed once the session settled.
func (s *Session[R]) Done() <-chan struct{} { return s.done }

// Start runs the capture and blocks until it settles. Progress and stop
// errors are reported through h while it runs. Errors from the start
// command are returned as the gateway produced them.
func (s *Session[R]) Start(ctx context.Context, h Handlers) (R, error) {
	var zero R

	s.mu.Lock()
	if s.state != stateBuilt {
		s.mu.Unlock()

		return zero, ErrAlreadyStarted
	}

	runCtx, stopRun := context.WithCancel(ctx)
	s.state = stateRunning
	s.handlers = h
	s.stopRun = stopRun
	s.mu.Unlock()

	s.register(h)

	s.logger.Info().Str("strategy", s.strategy.String()).Msg("Starting capture")

	resp, err := s.repo.gateway.Execute(runCtx, osc.CommandStartCapture, s.start)

	switch {
	case err != nil:
		s.settle(nil, err)
	case resp == nil:
		s.settle(nil, nil)
	case resp.Err() != nil:
		s.settle(nil, resp.Err())
	default:
		s.run(runCtx, resp)
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		s.settle(nil, ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.result, s.err
}

func (s *Session[R]) register(h Handlers) {
	relay := s.repo.relay

	var onProgress notify.Handler
	if h.OnProgress != nil {
		onProgress = func(e notify.Event) {
			completion, ok := e.Completion()
			if !ok {
				return
			}

			s.cbMu.Lock()
			defer s.cbMu.Unlock()

			if s.settled() {
				return
			}

			h.OnProgress(completion)
		}
	}

	var onStopError notify.Handler
	if h.OnStopError != nil {
		onStopError = func(e notify.Event) {
			s.reportStopError(&StopError{Err: &osc.WebAPIError{Message: e.Message()}})
		}
	}

	relay.Register(s.owner, s.names.Progress, onProgress)
	relay.Register(s.owner, s.names.StopError, onStopError)

	if s.strategy != strategyEvent {
		return
	}

	relay.Register(s.owner, s.names.Completed, func(e notify.Event) {
		s.settle(e.FileURLs(), nil)
	})
	relay.Register(s.owner, s.names.Failed, func(e notify.Event) {
		s.settle(nil, &osc.WebAPIError{Message: e.Message()})
	})
}

// run hands the accepted start command to the kind's completion strategy.
func (s *Session[R]) run(ctx context.Context, resp *osc.CommandResponse) {
	if s.strategy == strategyPoll {
		go s.supervise(ctx)
		return
	}

	if resp.State == osc.StateDone || resp.ID == "" {
		urls, err := resp.FileURLs()
		s.settle(urls, err)

		return
	}

	tracker := newCommandTracker(s.repo, s.names, s.owner, s.config.CheckInterval, s.logger)

	// the tracker settles its own session too, so a newer session that took
	// over the event names cannot strand this one
	go func() {
		urls, err := tracker.run(ctx, resp.ID, s.done)
		s.settle(urls, err)
	}()
}

func (s *Session[R]) supervise(ctx context.Context) {
	source := poller.NewStatusPoller(s.repo.gateway, s.repo.poll.RetryPolicy(), s.repo.clock, s.logger)
	sup := poller.NewSupervisor(source, s.repo.clock, s.config.CheckInterval, s.repo.poll.IdleThreshold, s.logger)

	if err := sup.Run(ctx, s.done); err != nil {
		s.settle(nil, err)
		return
	}

	s.settle(nil, nil)
}

// Cancel asks the camera to stop. The running Start still settles through
// its normal path. A failed stop is reported to OnStopError and returned as
// a *StopError. Cancel may be called from a Handlers callback.
func (s *Session[R]) Cancel(ctx context.Context) error {
	s.logger.Info().Msg("Stopping capture")

	resp, err := s.repo.gateway.Execute(ctx, osc.CommandStopCapture, nil)

	var urls []string
	if err == nil && resp != nil {
		if err = resp.Err(); err == nil {
			urls, err = resp.FileURLs()
		}
	}

	if err != nil {
		stopErr := &StopError{Err: err}
		s.reportStopError(stopErr)

		return stopErr
	}

	if s.strategy == strategyPoll {
		// settling waits for a running OnProgress, which may be our caller
		go s.settle(urls, nil)
	}

	return nil
}

func (s *Session[R]) reportStopError(err *StopError) {
	s.mu.Lock()
	fn := s.handlers.OnStopError
	running := s.state == stateRunning
	s.mu.Unlock()

	if !running || fn == nil {
		s.logger.Debug().Err(err).Msg("Stop error after settlement ignored")
		return
	}

	fn(err)
}

func (s *Session[R]) settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state == stateSettled
}

// settle records the outcome once. Later calls, and calls before Start,
// return false and change nothing.
func (s *Session[R]) settle(urls []string, err error) bool {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()

	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return false
	}

	s.state = stateSettled

	if err != nil {
		s.err = err
	} else {
		s.result = s.shape(urls)
	}

	stopRun := s.stopRun
	close(s.done)
	s.mu.Unlock()

	released := s.repo.relay.ReleaseFor(s.owner)

	if stopRun != nil {
		stopRun()
	}

	if err != nil {
		s.logEnd(err)
	} else {
		s.logger.Info().Int("files", len(urls)).Int("released", released).Msg("Capture completed")
	}

	return true
}

func (s *Session[R]) logEnd(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Info().Err(err).Msg("Capture abandoned")
		return
	}

	s.logger.Warn().Err(err).Msg("Capture failed")
}

func (s *Session[R]) String() string {
	return fmt.Sprintf("%s capture %s", s.kind, s.owner)
}
