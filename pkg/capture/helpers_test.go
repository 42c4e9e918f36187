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
	"encoding/json"
	"sync"
	"time"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
)

type gatewayCall struct {
	name   string
	params interface{}
}

// fakeGateway is a scripted camera. Unset funcs answer with a done response.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	states  int
	status  int
	execute func(name string, params interface{}) (*osc.CommandResponse, error)
	onState func(n int) (*osc.StateResponse, error)
	onStat  func(n int) (*osc.CommandResponse, error)
	// onStatID, when set, answers status queries per command id.
	onStatID func(id string) (*osc.CommandResponse, error)
}

var _ osc.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) Execute(_ context.Context, name string, params interface{}) (*osc.CommandResponse, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gatewayCall{name: name, params: params})
	fn := g.execute
	g.mu.Unlock()

	if fn == nil {
		return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
	}

	return fn(name, params)
}

func (g *fakeGateway) Status(_ context.Context, id string) (*osc.CommandResponse, error) {
	g.mu.Lock()
	g.status++
	n := g.status
	fn := g.onStat
	byID := g.onStatID
	g.mu.Unlock()

	if byID != nil {
		return byID(id)
	}

	if fn == nil {
		return &osc.CommandResponse{State: osc.StateDone}, nil
	}

	return fn(n)
}

func (g *fakeGateway) State(_ context.Context) (*osc.StateResponse, error) {
	g.mu.Lock()
	g.states++
	n := g.states
	fn := g.onState
	g.mu.Unlock()

	if fn == nil {
		return stateResponse("idle"), nil
	}

	return fn(n)
}

func (g *fakeGateway) callsNamed(name string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []gatewayCall

	for _, c := range g.calls {
		if c.name == name {
			out = append(out, c)
		}
	}

	return out
}

func (g *fakeGateway) stateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.states
}

func stateResponse(captureStatus string) *osc.StateResponse {
	return &osc.StateResponse{State: osc.CameraState{CaptureStatus: captureStatus}}
}

func doneWithFiles(name string, urls ...string) *osc.CommandResponse {
	results, _ := json.Marshal(map[string][]string{"fileUrls": urls})

	return &osc.CommandResponse{Name: name, State: osc.StateDone, Results: results}
}

// instantClock fires every delay immediately.
type instantClock struct{}

func (instantClock) Now() time.Time { return time.Now() }

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()

	return ch
}

// stalledClock never fires, so poll loops wait until the session settles.
type stalledClock struct{}

func (stalledClock) Now() time.Time { return time.Now() }

func (stalledClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}

func newTestRepository(gw osc.Gateway, opts ...RepositoryOption) *Repository {
	log := logger.NewTestLogger()

	return NewRepository(gw, notify.NewRelay(nil, log), log, opts...)
}

type startResult[R any] struct {
	value R
	err   error
}

func startAsync[R any](ctx context.Context, s *Session[R], h Handlers) <-chan startResult[R] {
	out := make(chan startResult[R], 1)

	go func() {
		v, err := s.Start(ctx, h)
		out <- startResult[R]{value: v, err: err}
	}()

	return out
}

func waitResult[R any](ch <-chan startResult[R]) (startResult[R], bool) {
	select {
	case r := <-ch:
		return r, true
	case <-time.After(5 * time.Second):
		return startResult[R]{}, false
	}
}
